package regschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	surfaces := compileK20(t)
	symbols, err := LoadSymbolsFile("testdata/symbols.yaml")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x40052000), symbols["k20_iomem_WDOG"])

	reg, err := NewRegistry(surfaces, symbols)
	require.NoError(t, err)
	assert.Equal(t, []string{"SIM", "WDOG"}, reg.Blocks())

	wdog, ok := reg.Lookup("WDOG")
	require.True(t, ok)
	assert.Equal(t, uint64(0x40052000), wdog.Base)

	mem := NewMemory()
	require.NoError(t, wdog.Set(mem, "refresh", "refresh", Named("Seq2")))
	assert.Equal(t, []BusOp{{Store: true, Addr: 0x4005200c, Width: 16, Value: 0xb480}}, mem.Ops)

	require.NoError(t, wdog.Set(mem, "stctrlh", "allowupdate", Raw(1)))
	v, err := wdog.Get(mem, "stctrlh", "allowupdate")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	assert.Error(t, wdog.Set(mem, "stctrlh", "nope", Raw(1)))
	_, ok = reg.Lookup("PORTA")
	assert.False(t, ok)
}

func TestRegistryUnresolved(t *testing.T) {
	surfaces := compileK20(t)
	_, err := NewRegistry(surfaces, map[string]uint64{})
	require.ErrorIs(t, err, ErrUnresolvedSymbol)
	assert.Contains(t, err.Error(), "k20_iomem_WDOG")
	assert.Contains(t, err.Error(), "k20_iomem_SIM")

	_, err = NewRegistry(append(surfaces, surfaces[0]), map[string]uint64{
		"k20_iomem_WDOG": 1,
		"k20_iomem_SIM":  2,
	})
	assert.ErrorIs(t, err, ErrDuplicateBlock)
}
