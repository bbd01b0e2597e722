package regschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omibyte.io/hwc/diag"
)

func compileK20(t *testing.T) []*Surface {
	t.Helper()
	dc := diag.NewContext()
	surfaces := CompileSchema(loadK20(t), dc)
	require.False(t, dc.Failed(), "%v", dc.Err())
	return surfaces
}

func TestSetGetRoundTrip(t *testing.T) {
	sim := compileK20(t)[1]
	mem := NewMemory()
	const base = 0x40047000

	// Fill the register so preserved bits are observable.
	mem.Store(base+0x1004, 32, 0xffff_ffff)

	clkoutsel, ok := sim.Lookup("sopt2", "clkoutsel")
	require.True(t, ok)

	for _, v := range []uint64{0, 1, 5, 7} {
		require.NoError(t, clkoutsel.Set(mem, base, Raw(v)))
		got, err := clkoutsel.Get(mem, base)
		require.NoError(t, err)
		assert.Equal(t, v, got)

		raw := mem.Load(base+0x1004, 32)
		assert.Equal(t, uint64(0xffff_ffff)&^0xe0, raw&^0xe0, "bits outside the field are preserved")
	}
}

func TestReadModifyWriteIsOneLoadOneStore(t *testing.T) {
	wdog := compileK20(t)[0]
	mem := NewMemory()
	en, _ := wdog.Lookup("stctrlh", "en")
	allow, _ := wdog.Lookup("stctrlh", "allowupdate")

	require.NoError(t, allow.Set(mem, 0x1000, Raw(1)))
	mem.Reset()
	require.NoError(t, en.Set(mem, 0x1000, Raw(1)))

	require.Len(t, mem.Ops, 2)
	assert.Equal(t, BusOp{Addr: 0x1000, Width: 16, Value: 0x10}, mem.Ops[0])
	assert.Equal(t, BusOp{Store: true, Addr: 0x1000, Width: 16, Value: 0x11}, mem.Ops[1])
}

func TestDirectWrite(t *testing.T) {
	wdog := compileK20(t)[0]
	mem := NewMemory()
	mem.Store(0x100e, 16, 0x00ff)
	mem.Reset()

	unlock, _ := wdog.Lookup("unlock", "unlock")
	require.NoError(t, unlock.Set(mem, 0x1000, Named("Seq1")))
	require.NoError(t, unlock.Set(mem, 0x1000, Raw(0xd928)))

	assert.Equal(t, []BusOp{
		{Store: true, Addr: 0x100e, Width: 16, Value: 0xc520},
		{Store: true, Addr: 0x100e, Width: 16, Value: 0xd928},
	}, mem.Ops)

	_, err := unlock.Get(mem, 0x1000)
	assert.ErrorIs(t, err, ErrNotReadable)
}

func TestSetErrors(t *testing.T) {
	surfaces := compileK20(t)
	mem := NewMemory()

	unlock, _ := surfaces[0].Lookup("unlock", "unlock")
	assert.ErrorIs(t, unlock.Set(mem, 0, Named("Seq3")), ErrUnknownSymbol)
	assert.ErrorIs(t, unlock.Set(mem, 0, Raw(0x10000)), ErrValueOverflow)

	usbsrc, _ := surfaces[1].Lookup("sopt2", "usbsrc")
	assert.ErrorIs(t, usbsrc.Set(mem, 0, Raw(1)), ErrNotWritable)
	assert.Empty(t, mem.Ops)
}

func TestNamedValue(t *testing.T) {
	sim := compileK20(t)[1]
	mem := NewMemory()
	sel, _ := sim.Lookup("sopt2", "pllfllsel")

	require.NoError(t, sel.Set(mem, 0, Named("PLL")))
	v, err := sel.Get(mem, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
	assert.Equal(t, uint64(1<<16), mem.Load(0x1004, 32))

	assert.Equal(t, "PLL", Named("PLL").String())
	assert.Equal(t, "0x2a", Raw(42).String())
}

func TestZeroMemory(t *testing.T) {
	var mem Memory
	assert.Zero(t, mem.Load(0x10, 32))

	mem.Store(0x10, 16, 0xbeef)
	assert.Equal(t, uint64(0xbeef), mem.Load(0x10, 16))
	assert.Equal(t, uint64(0xef), mem.Load(0x10, 8))
	assert.Len(t, mem.Ops, 4)
}
