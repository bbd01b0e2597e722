package regschema

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Value is what a setter is asked to write: either the symbolic name of an
// enumerated bit pattern or a raw integer.
type Value struct {
	name  string
	raw   uint64
	named bool
}

func Named(symbol string) Value {
	return Value{name: symbol, named: true}
}

func Raw(n uint64) Value {
	return Value{raw: n}
}

func (v Value) IsNamed() bool {
	return v.named
}

func (v Value) Name() string {
	return v.name
}

func (v Value) String() string {
	if v.named {
		return v.name
	}
	return fmt.Sprintf("%#x", v.raw)
}

// Resolve turns v into the literal bit pattern for f, unshifted.
func (f *Field) Resolve(v Value) (uint64, error) {
	n := v.raw
	if v.named {
		i := slices.IndexFunc(f.Values, func(e EnumValue) bool {
			return e.Name == v.name
		})
		if i < 0 {
			return 0, fmt.Errorf("%w %q for field %s", ErrUnknownSymbol, v.name, f.Name)
		}
		n = uint64(f.Values[i].Value)
	}
	if n&^f.Bits.Mask() != 0 {
		return 0, fmt.Errorf("%w: %#x is wider than %d bits of %s", ErrValueOverflow, n, f.Bits.Width(), f.Name)
	}
	return n, nil
}
