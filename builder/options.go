package builder

import (
	"log/slog"
)

type Verbosity int

const (
	Quiet Verbosity = iota
	Info
	Warning
	Debug
)

// Level maps the verbosity onto a slog level. Quiet only lets errors
// through.
func (v Verbosity) Level() slog.Level {
	switch v {
	case Quiet:
		return slog.LevelError
	case Warning:
		return slog.LevelWarn
	case Debug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

type Format string

const (
	FormatGo   Format = "go"
	FormatCBOR Format = "cbor"
)

type Options struct {
	Schemas   []string
	Platforms []string

	// Output is a file for a single input, otherwise a directory. Empty
	// writes next to each input.
	Output string
	Format Format

	VolatilePackage string
	HALModule       string
	Entry           string

	// Symbols is a YAML symbol table the schema blocks must resolve
	// against. Optional.
	Symbols     string
	TargetsFile string

	NumJobs     int
	Environment Env
	Logger      *slog.Logger
}

// withDefaults fills options left empty from the environment.
func (o Options) withDefaults() Options {
	env := o.Environment
	if env == nil {
		env = Environment()
	}
	if o.Output == "" {
		o.Output = env.Value("HWC_OUTPUT")
	}
	if o.VolatilePackage == "" {
		o.VolatilePackage = env.Value("HWC_VOLATILE")
	}
	if o.TargetsFile == "" {
		o.TargetsFile = env.Value("HWC_TARGETS")
	}
	if o.HALModule == "" {
		o.HALModule = env.Value("HWC_HAL")
	}
	if o.Format == "" {
		o.Format = FormatGo
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
