package targets

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedded(t *testing.T) {
	assert.Equal(t, []string{"lpc17xx", "k20", "stm32f4"}, All().Names())

	lpc, err := All().FindByMCU("LPC17xx")
	require.NoError(t, err)
	assert.Equal(t, "_eglobals", lpc.StackSymbol)
	assert.Empty(t, lpc.RootAttributes)
	assert.False(t, lpc.AllowsRootAttribute("key"))

	require.NotNil(t, lpc.Clock)
	assert.Equal(t, "PLL0", lpc.Clock.PLLType)
	assert.Equal(t, "Main", lpc.Clock.Sources["main-oscillator"])
	assert.Equal(t, []string{"internal-oscillator", "main-oscillator", "rtc-oscillator"}, lpc.Clock.SourceNames())

	_, err = All().FindByMCU("avr")
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestLoad(t *testing.T) {
	ts, err := Load(strings.NewReader(`
targets:
  - mcu: Custom
    stackSymbol: _estack
    rootAttributes: [board]
`))
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, "custom", ts[0].MCU)
	assert.Nil(t, ts[0].Clock)
	assert.True(t, ts[0].AllowsRootAttribute("board"))
}

func TestLoadInvalid(t *testing.T) {
	for _, src := range []string{
		"targets:\n  - mcu: x\n",
		"targets:\n  - stackSymbol: _e\n",
		"targets:\n  - mcu: x\n    stackSymbol: _e\n    colour: red\n",
		"targets:\n  - mcu: x\n    stackSymbol: _e\n    clock: {entry: f}\n",
		"targets:\n  - mcu: x\n    stackSymbol: _e\n  - mcu: X\n    stackSymbol: _e\n",
	} {
		_, err := Load(strings.NewReader(src))
		assert.ErrorIs(t, err, ErrInvalidTarget, src)
	}
}
