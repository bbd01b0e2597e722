package builder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"omibyte.io/hwc/compiler"
	"omibyte.io/hwc/diag"
	"omibyte.io/hwc/emit"
	"omibyte.io/hwc/platformtree/ptparse"
	"omibyte.io/hwc/regschema"
	"omibyte.io/hwc/regschema/gogen"
	"omibyte.io/hwc/targets"
)

// BuildSchemas compiles every register schema in opts.Schemas into Go
// accessor source. Inputs are independent and compiled in parallel; all
// failures are reported together.
func BuildSchemas(ctx context.Context, opts Options) error {
	opts = opts.withDefaults()

	var symbols map[string]uint64
	if opts.Symbols != "" {
		var err error
		if symbols, err = regschema.LoadSymbolsFile(opts.Symbols); err != nil {
			return errors.Join(ErrParserError, err)
		}
	}

	return forEach(ctx, opts, opts.Schemas, func(input string) error {
		return buildSchema(input, symbols, opts)
	})
}

// BuildPlatforms compiles every platform tree in opts.Platforms.
func BuildPlatforms(ctx context.Context, opts Options) error {
	opts = opts.withDefaults()
	switch opts.Format {
	case FormatGo, FormatCBOR:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, opts.Format)
	}

	rules := targets.All()
	if opts.TargetsFile != "" {
		var err error
		if rules, err = targets.LoadFile(opts.TargetsFile); err != nil {
			return errors.Join(ErrParserError, err)
		}
	}

	return forEach(ctx, opts, opts.Platforms, func(input string) error {
		return buildPlatform(input, rules, opts)
	})
}

func forEach(ctx context.Context, opts Options, inputs []string, build func(string) error) error {
	// Output must be a directory if multiple inputs were specified
	if info, err := os.Stat(opts.Output); err == nil && !info.IsDir() && len(inputs) > 1 {
		return ErrUnexpectedOutputPath
	}

	jobs := opts.NumJobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(jobs)

	errs := make([]error, len(inputs))
	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			if err := build(input); err != nil {
				errs[i] = fmt.Errorf("%s: %w", input, err)
			}
			return nil
		})
	}
	g.Wait()
	return errors.Join(errs...)
}

func buildSchema(input string, symbols map[string]uint64, opts Options) error {
	logger := opts.Logger.With(slog.String("input", input))
	logger.Debug("loading register schema")

	schema, err := regschema.LoadFile(input)
	if err != nil {
		return errors.Join(ErrParserError, err)
	}

	dc := diag.NewContext()
	surfaces := regschema.CompileSchema(schema, dc)
	if err := report(logger, dc.Diagnostics()); err != nil {
		return err
	}

	if symbols != nil {
		registry, err := regschema.NewRegistry(surfaces, symbols)
		if err != nil {
			return errors.Join(ErrUnresolvedSymbols, err)
		}
		for _, name := range registry.Blocks() {
			binding, _ := registry.Lookup(name)
			logger.Debug("block bound", slog.String("block", name), slog.String("base", fmt.Sprintf("%#x", binding.Base)))
		}
	}

	genOpts := gogen.DefaultOptions()
	if opts.VolatilePackage != "" {
		genOpts.VolatileImport = opts.VolatilePackage
	}
	genOpts.Source = filepath.Base(input)
	src, err := gogen.Generate(schema.Package, surfaces, genOpts)
	if err != nil {
		return err
	}

	output, err := outputPath(input, opts.Output, ".go", len(opts.Schemas))
	if err != nil {
		return err
	}
	if err := writeFile(output, src); err != nil {
		return err
	}
	logger.Info("generated register accessors", slog.String("output", output), slog.Int("blocks", len(surfaces)))
	return nil
}

func buildPlatform(input string, rules targets.Targets, opts Options) error {
	logger := opts.Logger.With(slog.String("input", input))
	logger.Debug("parsing platform tree")

	root, err := ptparse.ParseFile(input)
	if err != nil {
		return errors.Join(ErrParserError, err)
	}

	result := compiler.CompileFor(root, rules)
	failure := report(logger, result.Diagnostics)

	var src []byte
	var ext string
	switch opts.Format {
	case FormatCBOR:
		// Artifacts carry their diagnostics and are written even on failure.
		var buf bytes.Buffer
		if err := emit.EncodeArtifact(&buf, result); err != nil {
			return err
		}
		src, ext = buf.Bytes(), ".cbor"
	default:
		if failure != nil {
			return failure
		}
		emitOpts := emit.DefaultOptions()
		if opts.Entry != "" {
			emitOpts.Entry = opts.Entry
		}
		emitOpts.HALModule = opts.HALModule
		emitOpts.Source = filepath.Base(input)
		if src, err = emit.GoMain(result, emitOpts); err != nil {
			return err
		}
		ext = ".go"
	}

	output, err := outputPath(input, opts.Output, ext, len(opts.Platforms))
	if err != nil {
		return err
	}
	if err := writeFile(output, src); err != nil {
		return err
	}
	logger.Info("generated platform init",
		slog.String("mcu", result.MCU),
		slog.Int("statements", len(result.Statements)),
		slog.String("output", output))
	return failure
}

// report logs every diagnostic and returns the errors among them.
func report(logger *slog.Logger, diagnostics []diag.Diagnostic) error {
	for _, d := range diagnostics {
		level := slog.LevelError
		if d.Severity == diag.Warning {
			level = slog.LevelWarn
		}
		attrs := []slog.Attr{slog.String("message", d.Message)}
		if d.Location != nil {
			attrs = append(attrs, slog.String("location", d.Location.String()))
		}
		logger.LogAttrs(context.Background(), level, "diagnostic", attrs...)
	}
	if err := diag.Join(diagnostics); err != nil {
		return errors.Join(ErrCompilationFailed, err)
	}
	return nil
}

// outputPath decides where the result for input goes. A single input may
// name a file; otherwise output is a directory.
func outputPath(input, output, ext string, inputs int) (string, error) {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ext
	if output == "" {
		return filepath.Join(filepath.Dir(input), name), nil
	}

	info, err := os.Stat(output)
	switch {
	case err == nil && info.IsDir():
		return filepath.Join(output, name), nil
	case err == nil && inputs > 1:
		return "", ErrUnexpectedOutputPath
	case errors.Is(err, os.ErrNotExist) && (inputs > 1 || strings.HasSuffix(output, string(filepath.Separator))):
		return filepath.Join(output, name), nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return "", err
	}
	return output, nil
}

func writeFile(fname string, data []byte) error {
	// The path to the output must exist. Create it if it doesn't
	dir := filepath.Dir(fname)
	if stat, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
	} else if err != nil {
		return err
	} else if !stat.IsDir() {
		return os.ErrInvalid
	}
	return os.WriteFile(fname, data, 0644)
}
