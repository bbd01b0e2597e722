package main

import (
	"github.com/spf13/cobra"

	"omibyte.io/hwc/builder"
)

var (
	platformOpts = struct {
		output  string
		format  string
		targets string
		entry   string
		hal     string
	}{}

	platformCmd = &cobra.Command{
		Use:   "platform [flags] tree.pt...",
		Short: "Generate initialization code from platform trees",
		Long: `Compile platform trees into a main package that sets the stack limit,
initializes static data and configures the clock before calling the
application entry point.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			return builder.BuildPlatforms(cmd.Context(), builder.Options{
				Platforms:   args,
				Output:      platformOpts.output,
				Format:      builder.Format(platformOpts.format),
				TargetsFile: platformOpts.targets,
				Entry:       platformOpts.entry,
				HALModule:   platformOpts.hal,
				NumJobs:     globalOpts.jobs,
				Environment: builder.Environment(),
				Logger:      logger,
			})
		},
	}
)

func init() {
	platformCmd.Flags().StringVarP(&platformOpts.output, "output", "o", "", "output file or directory. Default: $HWC_OUTPUT or next to each tree")
	platformCmd.Flags().StringVarP(&platformOpts.format, "format", "f", string(builder.FormatGo), "output format (go, cbor)")
	platformCmd.Flags().StringVar(&platformOpts.targets, "targets", "", "targets file replacing the built-in rules. Default: $HWC_TARGETS")
	platformCmd.Flags().StringVar(&platformOpts.entry, "entry", "run", "function called after initialization")
	platformCmd.Flags().StringVar(&platformOpts.hal, "hal", "", "module path prefixed to hal imports. Default: $HWC_HAL")
}
