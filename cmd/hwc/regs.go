package main

import (
	"github.com/spf13/cobra"

	"omibyte.io/hwc/builder"
)

var (
	regsOpts = struct {
		output   string
		volatile string
		symbols  string
	}{}

	regsCmd = &cobra.Command{
		Use:   "regs [flags] schema.yaml...",
		Short: "Generate register accessors from register schemas",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			return builder.BuildSchemas(cmd.Context(), builder.Options{
				Schemas:         args,
				Output:          regsOpts.output,
				VolatilePackage: regsOpts.volatile,
				Symbols:         regsOpts.symbols,
				NumJobs:         globalOpts.jobs,
				Environment:     builder.Environment(),
				Logger:          logger,
			})
		},
	}
)

func init() {
	regsCmd.Flags().StringVarP(&regsOpts.output, "output", "o", "", "output file or directory. Default: $HWC_OUTPUT or next to each schema")
	regsCmd.Flags().StringVar(&regsOpts.volatile, "volatile", "", "package providing volatile loads and stores. Default: $HWC_VOLATILE")
	regsCmd.Flags().StringVar(&regsOpts.symbols, "symbols", "", "symbol table every block must resolve against")
}
