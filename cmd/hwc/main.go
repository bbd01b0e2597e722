package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"omibyte.io/hwc/builder"
)

var (
	globalOpts = struct {
		verbose string
		jobs    int
	}{}

	rootCmd = &cobra.Command{
		Use:   "hwc",
		Short: "Compile hardware descriptions into Go",
		Long: `hwc compiles register schemas into typed register accessors and
platform trees into the initialization code of a firmware image.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalOpts.verbose, "verbose", "v", "warning", "verbosity level (quiet, info, warning, debug)")
	rootCmd.PersistentFlags().IntVarP(&globalOpts.jobs, "jobs", "j", runtime.NumCPU(), "number of concurrent compilations")

	rootCmd.AddCommand(regsCmd, platformCmd, targetsCmd, svdCmd, envCmd)
}

func parseVerbosity(s string) (builder.Verbosity, error) {
	switch strings.ToLower(s) {
	case "quiet":
		return builder.Quiet, nil
	case "", "info":
		return builder.Info, nil
	case "warning":
		return builder.Warning, nil
	case "debug":
		return builder.Debug, nil
	}
	return builder.Quiet, fmt.Errorf("unknown output verbosity %q", s)
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	v, err := parseVerbosity(globalOpts.verbose)
	if err != nil {
		return nil, err
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: v.Level()})
	return slog.New(handler), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hwc:", err)
		os.Exit(1)
	}
}
