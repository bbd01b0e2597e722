package regschema

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Integer accepts hexadecimal, octal, binary and decimal notation as well
// as underscore separators.
type Integer uint64

func (i *Integer) UnmarshalYAML(value *yaml.Node) error {
	v, err := parseInteger(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*i = Integer(v)
	return nil
}

func (i Integer) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!int",
		Value: fmt.Sprintf("%#x", uint64(i)),
	}, nil
}

func parseInteger(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(s), 0, 64)
}

type Access int

const (
	ReadWrite Access = iota
	ReadOnly
	WriteOnly
)

func (a Access) String() string {
	switch a {
	case ReadWrite:
		return "rw"
	case ReadOnly:
		return "ro"
	case WriteOnly:
		return "wo"
	default:
		return fmt.Sprintf("Access(%d)", int(a))
	}
}

func (a Access) Readable() bool {
	return a != WriteOnly
}

func (a Access) Writable() bool {
	return a != ReadOnly
}

// ParseAccess understands both the short and the SVD spelling.
func ParseAccess(s string) (Access, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rw", "read-write":
		return ReadWrite, nil
	case "ro", "read-only":
		return ReadOnly, nil
	case "wo", "write-only":
		return WriteOnly, nil
	}
	return ReadWrite, fmt.Errorf("%w: %q", ErrBadAccess, s)
}

func (a *Access) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseAccess(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*a = v
	return nil
}

func (a Access) MarshalYAML() (any, error) {
	return a.String(), nil
}

// BitRange is an inclusive range of bit indices within a register.
type BitRange struct {
	Low  uint
	High uint
}

func Bit(n uint) BitRange {
	return BitRange{Low: n, High: n}
}

func Bits(low, high uint) BitRange {
	return BitRange{Low: low, High: high}
}

// ParseBitRange reads "n" or "low..high".
func ParseBitRange(s string) (BitRange, error) {
	s = strings.TrimSpace(s)
	lo, hi, found := strings.Cut(s, "..")
	low, err := strconv.ParseUint(strings.TrimSpace(lo), 0, 8)
	if err != nil {
		return BitRange{}, fmt.Errorf("%w: %q", ErrBadBitRange, s)
	}
	if !found {
		return Bit(uint(low)), nil
	}
	high, err := strconv.ParseUint(strings.TrimSpace(hi), 0, 8)
	if err != nil {
		return BitRange{}, fmt.Errorf("%w: %q", ErrBadBitRange, s)
	}
	return Bits(uint(low), uint(high)), nil
}

func (r BitRange) Width() uint {
	if r.High < r.Low {
		return 0
	}
	return r.High - r.Low + 1
}

// Mask is the unshifted mask covering Width bits.
func (r BitRange) Mask() uint64 {
	w := r.Width()
	if w >= 64 {
		return ^uint64(0)
	}
	return 1<<w - 1
}

func (r BitRange) Overlaps(o BitRange) bool {
	return r.Low <= o.High && o.Low <= r.High
}

func (r BitRange) String() string {
	if r.Low == r.High {
		return strconv.FormatUint(uint64(r.Low), 10)
	}
	return fmt.Sprintf("%d..%d", r.Low, r.High)
}

func (r *BitRange) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseBitRange(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*r = v
	return nil
}

func (r BitRange) MarshalYAML() (any, error) {
	if r.Low == r.High {
		return r.Low, nil
	}
	return r.String(), nil
}

type EnumValue struct {
	Name  string  `yaml:"name"`
	Value Integer `yaml:"value"`
}

type Field struct {
	Name   string      `yaml:"name"`
	Bits   BitRange    `yaml:"bits"`
	Access Access      `yaml:"access,omitempty"`
	Values []EnumValue `yaml:"values,omitempty"`
}

type Register struct {
	Name   string   `yaml:"name"`
	Offset Integer  `yaml:"offset"`
	Width  uint     `yaml:"width"`
	Fields []*Field `yaml:"fields"`
}

// Block is a memory mapped region bound to an externally linked symbol.
type Block struct {
	Name       string      `yaml:"name"`
	LinkSymbol string      `yaml:"link_symbol"`
	Registers  []*Register `yaml:"registers"`
}

type Schema struct {
	Package string   `yaml:"package"`
	Blocks  []*Block `yaml:"blocks"`
}

// Location names a block, register or field for diagnostics.
type Location struct {
	Block    string
	Register string
	Field    string
}

func (l Location) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Block, l.Register, l.Field} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}
