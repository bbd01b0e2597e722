package regschema

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omibyte.io/hwc/diag"
)

func loadK20(t *testing.T) *Schema {
	t.Helper()
	s, err := LoadFile("testdata/k20.yaml")
	require.NoError(t, err)
	return s
}

func TestLoad(t *testing.T) {
	s := loadK20(t)
	assert.Equal(t, "reg", s.Package)
	require.Len(t, s.Blocks, 2)

	wdog := s.Blocks[0]
	assert.Equal(t, "WDOG", wdog.Name)
	assert.Equal(t, "k20_iomem_WDOG", wdog.LinkSymbol)
	require.Len(t, wdog.Registers, 3)

	unlock := wdog.Registers[2]
	assert.Equal(t, Integer(0xe), unlock.Offset)
	assert.Equal(t, uint(16), unlock.Width)
	require.Len(t, unlock.Fields, 1)
	assert.Equal(t, Bits(0, 15), unlock.Fields[0].Bits)
	assert.Equal(t, WriteOnly, unlock.Fields[0].Access)
	assert.Equal(t, []EnumValue{{"Seq1", 0xc520}, {"Seq2", 0xd928}}, unlock.Fields[0].Values)

	en := wdog.Registers[0].Fields[0]
	assert.Equal(t, Bit(0), en.Bits)
	assert.Equal(t, ReadWrite, en.Access)

	sim := s.Blocks[1]
	assert.Equal(t, Integer(0x1030), sim.Registers[0].Offset)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader("package: p\nblocks:\n  - name: A\n    base: 1\n"))
	assert.Error(t, err)
}

func TestLoadBadValues(t *testing.T) {
	_, err := Load(strings.NewReader("blocks:\n  - name: A\n    registers:\n      - name: r\n        offset: zz\n"))
	assert.Error(t, err)

	_, err = Load(strings.NewReader("blocks:\n  - name: A\n    registers:\n      - name: r\n        fields:\n          - name: f\n            access: sometimes\n"))
	assert.ErrorIs(t, err, ErrBadAccess)

	_, err = Load(strings.NewReader("blocks:\n  - name: A\n    registers:\n      - name: r\n        fields:\n          - name: f\n            bits: 1..x\n"))
	assert.ErrorIs(t, err, ErrBadBitRange)
}

func TestSaveLoad(t *testing.T) {
	s := loadK20(t)
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, s))
	assert.Contains(t, buf.String(), "bits: 0..15")
	assert.Contains(t, buf.String(), "offset: 0x1030")

	again, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, s, again)
}

func TestCompileOneAccessorPerField(t *testing.T) {
	s := loadK20(t)
	dc := diag.NewContext()
	surfaces := CompileSchema(s, dc)
	require.False(t, dc.Failed(), "%v", dc.Err())
	require.Len(t, surfaces, 2)

	for i, b := range s.Blocks {
		declared := 0
		for _, r := range b.Registers {
			declared += len(r.Fields)
		}
		assert.Equal(t, declared, surfaces[i].FieldCount(), b.Name)
		assert.Equal(t, b.LinkSymbol, surfaces[i].LinkSymbol)
	}

	unlock, ok := surfaces[0].Lookup("unlock", "unlock")
	require.True(t, ok)
	assert.True(t, unlock.Direct)
	assert.True(t, unlock.Setter)
	assert.False(t, unlock.Getter)

	en, ok := surfaces[0].Lookup("stctrlh", "en")
	require.True(t, ok)
	assert.False(t, en.Direct)
	assert.True(t, en.Getter)
	assert.True(t, en.Setter)

	usbsrc, ok := surfaces[1].Lookup("sopt2", "usbsrc")
	require.True(t, ok)
	assert.True(t, usbsrc.Getter)
	assert.False(t, usbsrc.Setter)
}

func TestCompileDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		reg     *Register
		fields  []string
		message string
	}{
		{
			name: "overlap",
			reg: &Register{Name: "r", Width: 32, Fields: []*Field{
				{Name: "a", Bits: Bits(0, 3)},
				{Name: "b", Bits: Bits(3, 5)},
				{Name: "c", Bits: Bits(6, 7)},
			}},
			fields:  []string{"a", "c"},
			message: "overlap field a",
		},
		{
			name: "out of range",
			reg: &Register{Name: "r", Width: 16, Fields: []*Field{
				{Name: "a", Bits: Bits(8, 16)},
				{Name: "b", Bits: Bit(15)},
			}},
			fields:  []string{"b"},
			message: "exceed the 16-bit register",
		},
		{
			name: "inverted",
			reg: &Register{Name: "r", Width: 16, Fields: []*Field{
				{Name: "a", Bits: Bits(4, 2)},
			}},
			message: "inverted",
		},
		{
			name: "duplicate field",
			reg: &Register{Name: "r", Width: 8, Fields: []*Field{
				{Name: "a", Bits: Bit(0)},
				{Name: "a", Bits: Bit(1)},
			}},
			fields:  []string{"a"},
			message: "duplicate field name",
		},
		{
			name: "enum overflow",
			reg: &Register{Name: "r", Width: 8, Fields: []*Field{
				{Name: "a", Bits: Bits(0, 1), Values: []EnumValue{{"Big", 4}}},
				{Name: "b", Bits: Bit(2)},
			}},
			fields:  []string{"b"},
			message: "does not fit in 2 bits",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dc := diag.NewContext()
			s := Compile(&Block{Name: "B", LinkSymbol: "b", Registers: []*Register{tc.reg}}, dc)
			require.True(t, dc.Failed())
			assert.Contains(t, dc.Err().Error(), tc.message)

			require.Len(t, s.Registers, 1)
			var got []string
			for _, a := range s.Registers[0].Fields {
				got = append(got, a.Field.Name)
			}
			assert.Equal(t, tc.fields, got)
		})
	}
}

func TestCompileBadRegister(t *testing.T) {
	dc := diag.NewContext()
	s := Compile(&Block{Name: "B", Registers: []*Register{
		{Name: "wide", Width: 64, Fields: []*Field{{Name: "a", Bits: Bit(0)}}},
		{Name: "ok", Width: 32, Fields: []*Field{{Name: "a", Bits: Bit(0)}}},
		{Name: "ok", Width: 32},
	}}, dc)

	ds := dc.Diagnostics()
	require.Len(t, ds, 3)
	assert.Equal(t, "B: error: block has no link symbol", ds[0].Error())
	assert.Contains(t, ds[1].Error(), "B.wide")
	assert.Contains(t, ds[2].Error(), "duplicate register name")

	require.Len(t, s.Registers, 1)
	assert.Equal(t, "ok", s.Registers[0].Register.Name)
}

func TestNarrowWriteOnlyWarns(t *testing.T) {
	dc := diag.NewContext()
	s := Compile(&Block{Name: "B", LinkSymbol: "b", Registers: []*Register{
		{Name: "r", Width: 32, Fields: []*Field{{Name: "go", Bits: Bit(3), Access: WriteOnly}}},
	}}, dc)
	assert.False(t, dc.Failed())
	require.Len(t, dc.Diagnostics(), 1)
	assert.Equal(t, diag.Warning, dc.Diagnostics()[0].Severity)
	a, ok := s.Lookup("r", "go")
	require.True(t, ok)
	assert.False(t, a.Direct)
}

func TestCompileDuplicateBlock(t *testing.T) {
	dc := diag.NewContext()
	surfaces := CompileSchema(&Schema{Blocks: []*Block{
		{Name: "A", LinkSymbol: "a"},
		{Name: "A", LinkSymbol: "a2"},
	}}, dc)
	assert.True(t, dc.Failed())
	assert.Len(t, surfaces, 1)
}

func TestCompileMisalignedRegister(t *testing.T) {
	dc := diag.NewContext()
	s := Compile(&Block{Name: "B", LinkSymbol: "b", Registers: []*Register{
		{Name: "r", Offset: 0x2, Width: 32, Fields: []*Field{{Name: "a", Bits: Bit(0)}}},
		{Name: "h", Offset: 0x2, Width: 16, Fields: []*Field{{Name: "a", Bits: Bit(0)}}},
	}}, dc)
	require.True(t, dc.Failed())
	assert.Contains(t, dc.Err().Error(), "B.r")
	require.Len(t, s.Registers, 1)
	assert.Equal(t, "h", s.Registers[0].Register.Name)
}
