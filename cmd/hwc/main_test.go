package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omibyte.io/hwc/builder"
	"omibyte.io/hwc/regschema"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseVerbosity(t *testing.T) {
	for in, want := range map[string]builder.Verbosity{
		"quiet":   builder.Quiet,
		"":        builder.Info,
		"INFO":    builder.Info,
		"warning": builder.Warning,
		"debug":   builder.Debug,
	} {
		got, err := parseVerbosity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseVerbosity("loud")
	assert.Error(t, err)
}

func TestTargetsCommand(t *testing.T) {
	out, err := run(t, "targets")
	require.NoError(t, err)
	assert.Contains(t, out, "lpc17xx")
	assert.Contains(t, out, "stm32f4")

	out, err = run(t, "targets", "lpc17xx")
	require.NoError(t, err)
	assert.Contains(t, out, "stackSymbol: _eglobals")
	assert.Contains(t, out, "main-oscillator: Main")

	_, err = run(t, "targets", "avr")
	assert.Error(t, err)
}

func TestPlatformCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "board.pt")
	require.NoError(t, os.WriteFile(input, []byte("mcu@lpc17xx;\n"), 0644))
	output := filepath.Join(dir, "out", "main.go")

	_, err := run(t, "platform", "--verbose", "quiet", "-o", output, input)
	require.NoError(t, err)
	src, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(src), "meminit.InitData()")

	require.NoError(t, os.WriteFile(input, []byte("mcu@lpc17xx { key = 1; }\n"), 0644))
	out, err := run(t, "platform", "--verbose", "info", "-o", output, input)
	assert.ErrorIs(t, err, builder.ErrCompilationFailed)
	assert.Contains(t, out, `unknown attribute`)

	_, err = run(t, "platform", "--verbose", "loud", input)
	assert.Error(t, err)
}

func TestRegsCommand(t *testing.T) {
	output := filepath.Join(t.TempDir(), "regs.go")
	_, err := run(t, "regs", "--verbose", "quiet",
		"--symbols", "../../regschema/testdata/symbols.yaml",
		"-o", output, "../../regschema/testdata/k20.yaml")
	require.NoError(t, err)
	assert.FileExists(t, output)
}

func TestSVDCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "dev.svd")
	require.NoError(t, os.WriteFile(input, []byte(`<device>
  <name>DEV</name>
  <size>32</size>
  <peripherals>
    <peripheral>
      <name>GPIO</name>
      <registers>
        <register>
          <name>OUT</name>
          <addressOffset>0x4</addressOffset>
          <fields>
            <field><name>PIN0</name><bitOffset>0</bitOffset><bitWidth>1</bitWidth></field>
          </fields>
        </register>
      </registers>
    </peripheral>
  </peripherals>
</device>`), 0644))
	output := filepath.Join(dir, "dev.yaml")

	_, err := run(t, "svd", "--verbose", "quiet", "--prefix", "dev_", "-o", output, input)
	require.NoError(t, err)

	s, err := regschema.LoadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "dev", s.Package)
	require.Len(t, s.Blocks, 1)
	assert.Equal(t, "dev_GPIO", s.Blocks[0].LinkSymbol)
	assert.EqualValues(t, 4, s.Blocks[0].Registers[0].Offset)
}

func TestEnvCommand(t *testing.T) {
	t.Setenv("HWC_HAL", "example.com/fw")
	out, err := run(t, "env")
	require.NoError(t, err)
	assert.Contains(t, out, "set HWC_HAL=example.com/fw\n")
}
