package regschema

import "fmt"

// Bus performs volatile register accesses on behalf of the host-side
// accessors. Every Load and Store is one hardware access.
type Bus interface {
	Load(addr uint64, width uint) uint64
	Store(addr uint64, width uint, value uint64)
}

// Get reads the register once and extracts the field.
func (a *FieldAccessor) Get(bus Bus, base uint64) (uint64, error) {
	if !a.Getter {
		return 0, fmt.Errorf("%w: %s", ErrNotReadable, a.Field.Name)
	}
	v := bus.Load(base+uint64(a.Register.Offset), a.Register.Width)
	return (v >> a.Shift()) & a.Field.Bits.Mask(), nil
}

// Set writes v into the field. Direct accessors store the literal as is,
// all others read the register, replace the field bits and store it back.
func (a *FieldAccessor) Set(bus Bus, base uint64, v Value) error {
	if !a.Setter {
		return fmt.Errorf("%w: %s", ErrNotWritable, a.Field.Name)
	}
	n, err := a.Field.Resolve(v)
	if err != nil {
		return err
	}
	addr := base + uint64(a.Register.Offset)
	if a.Direct {
		bus.Store(addr, a.Register.Width, n)
		return nil
	}
	old := bus.Load(addr, a.Register.Width)
	bus.Store(addr, a.Register.Width, old&^a.Mask()|n<<a.Shift())
	return nil
}

type BusOp struct {
	Store bool
	Addr  uint64
	Width uint
	Value uint64
}

// Memory is a little-endian byte addressed Bus that records every access.
// The zero value is an empty memory.
type Memory struct {
	bytes map[uint64]byte
	Ops   []BusOp
}

func NewMemory() *Memory {
	return &Memory{bytes: map[uint64]byte{}}
}

func (m *Memory) Load(addr uint64, width uint) uint64 {
	var v uint64
	for i := uint64(0); i < uint64(width/8); i++ {
		v |= uint64(m.bytes[addr+i]) << (8 * i)
	}
	m.Ops = append(m.Ops, BusOp{Addr: addr, Width: width, Value: v})
	return v
}

func (m *Memory) Store(addr uint64, width uint, value uint64) {
	if m.bytes == nil {
		m.bytes = map[uint64]byte{}
	}
	for i := uint64(0); i < uint64(width/8); i++ {
		m.bytes[addr+i] = byte(value >> (8 * i))
	}
	m.Ops = append(m.Ops, BusOp{Store: true, Addr: addr, Width: width, Value: value})
}

func (m *Memory) Reset() {
	m.Ops = m.Ops[:0]
}
