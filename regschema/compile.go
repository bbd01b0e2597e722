package regschema

import (
	"omibyte.io/hwc/diag"
)

// Surface is the compiled accessor surface of one Block.
type Surface struct {
	Block      *Block
	LinkSymbol string
	Registers  []*RegisterSurface
}

type RegisterSurface struct {
	Register *Register
	Fields   []*FieldAccessor
}

// FieldAccessor is the single entry point generated for a Field.
type FieldAccessor struct {
	Register *Register
	Field    *Field

	// Getter is set for readable fields, Setter for writable ones.
	Getter bool
	Setter bool

	// Direct setters store the literal value without reading the register
	// first. Only write-only fields spanning the whole register are direct.
	Direct bool
}

func (a *FieldAccessor) Shift() uint {
	return a.Field.Bits.Low
}

// Mask is the field mask shifted into register position.
func (a *FieldAccessor) Mask() uint64 {
	return a.Field.Bits.Mask() << a.Field.Bits.Low
}

func ValidWidth(width uint) bool {
	switch width {
	case 8, 16, 32:
		return true
	}
	return false
}

// Compile validates block and builds its accessor surface. Problems are
// reported to dc; the offending field or register is left out and the rest
// of the block still compiles.
func Compile(block *Block, dc *diag.Context) *Surface {
	s := &Surface{
		Block:      block,
		LinkSymbol: block.LinkSymbol,
	}
	bloc := Location{Block: block.Name}
	if block.Name == "" {
		dc.Errorf(bloc, "block has no name")
	}
	if block.LinkSymbol == "" {
		dc.Errorf(bloc, "block has no link symbol")
	}

	names := map[string]bool{}
	for _, reg := range block.Registers {
		loc := Location{Block: block.Name, Register: reg.Name}
		if reg.Name == "" {
			dc.Errorf(loc, "register at offset %#x has no name", uint64(reg.Offset))
			continue
		}
		if names[reg.Name] {
			dc.Errorf(loc, "duplicate register name")
			continue
		}
		names[reg.Name] = true

		if !ValidWidth(reg.Width) {
			dc.Errorf(loc, "register width %d is not 8, 16 or 32", reg.Width)
			continue
		}
		if uint64(reg.Offset)%uint64(reg.Width/8) != 0 {
			dc.Errorf(loc, "offset %#x is not aligned for a %d-bit register", uint64(reg.Offset), reg.Width)
			continue
		}
		s.Registers = append(s.Registers, compileRegister(block, reg, dc))
	}
	return s
}

func compileRegister(block *Block, reg *Register, dc *diag.Context) *RegisterSurface {
	rs := &RegisterSurface{Register: reg}
	fieldNames := map[string]bool{}
	var accepted []*Field

	for _, f := range reg.Fields {
		loc := Location{Block: block.Name, Register: reg.Name, Field: f.Name}
		if f.Name == "" {
			dc.Errorf(loc, "field at bits %s has no name", f.Bits)
			continue
		}
		if fieldNames[f.Name] {
			dc.Errorf(loc, "duplicate field name")
			continue
		}
		fieldNames[f.Name] = true

		if !checkField(reg, f, accepted, loc, dc) {
			continue
		}
		accepted = append(accepted, f)

		a := &FieldAccessor{
			Register: reg,
			Field:    f,
			Getter:   f.Access.Readable(),
			Setter:   f.Access.Writable(),
		}
		if f.Access == WriteOnly {
			if f.Bits.Low == 0 && f.Bits.High == reg.Width-1 {
				a.Direct = true
			} else {
				dc.Warnf(loc, "write-only field %s narrower than the register is set with read-modify-write", f.Bits)
			}
		}
		rs.Fields = append(rs.Fields, a)
	}
	return rs
}

func checkField(reg *Register, f *Field, accepted []*Field, loc Location, dc *diag.Context) bool {
	ok := true
	if f.Bits.Low > f.Bits.High {
		dc.Errorf(loc, "bit range %d..%d is inverted", f.Bits.Low, f.Bits.High)
		return false
	}
	if f.Bits.High >= reg.Width {
		dc.Errorf(loc, "bits %s exceed the %d-bit register", f.Bits, reg.Width)
		return false
	}
	for _, other := range accepted {
		if f.Bits.Overlaps(other.Bits) {
			dc.Errorf(loc, "bits %s overlap field %s (bits %s)", f.Bits, other.Name, other.Bits)
			ok = false
		}
	}

	symbols := map[string]bool{}
	for _, v := range f.Values {
		if v.Name == "" {
			dc.Errorf(loc, "enumerated value %#x has no name", uint64(v.Value))
			ok = false
			continue
		}
		if symbols[v.Name] {
			dc.Errorf(loc, "duplicate enumerated value %s", v.Name)
			ok = false
		}
		symbols[v.Name] = true
		if uint64(v.Value)&^f.Bits.Mask() != 0 {
			dc.Errorf(loc, "enumerated value %s = %#x does not fit in %d bits", v.Name, uint64(v.Value), f.Bits.Width())
			ok = false
		}
	}
	return ok
}

// CompileSchema compiles every block of s into its own surface.
func CompileSchema(s *Schema, dc *diag.Context) []*Surface {
	surfaces := make([]*Surface, 0, len(s.Blocks))
	seen := map[string]bool{}
	for _, b := range s.Blocks {
		if b.Name != "" && seen[b.Name] {
			dc.Errorf(Location{Block: b.Name}, "duplicate block name")
			continue
		}
		seen[b.Name] = true
		surfaces = append(surfaces, Compile(b, dc))
	}
	return surfaces
}

// FieldCount is the number of accessor entry points in s.
func (s *Surface) FieldCount() int {
	n := 0
	for _, r := range s.Registers {
		n += len(r.Fields)
	}
	return n
}

func (s *Surface) Lookup(register, field string) (*FieldAccessor, bool) {
	for _, r := range s.Registers {
		if r.Register.Name != register {
			continue
		}
		for _, a := range r.Fields {
			if a.Field.Name == field {
				return a, true
			}
		}
	}
	return nil, false
}
