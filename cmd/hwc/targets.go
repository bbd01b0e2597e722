package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"omibyte.io/hwc/targets"
)

var (
	targetsFile string

	targetsCmd = &cobra.Command{
		Use:   "targets [mcu]",
		Short: "List supported targets or print the rules of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all := targets.All()
			if targetsFile != "" {
				var err error
				if all, err = targets.LoadFile(targetsFile); err != nil {
					return err
				}
			}

			if len(args) == 0 {
				for _, t := range all {
					fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", t.MCU, t.Arch)
				}
				return nil
			}

			t, err := all.FindByMCU(args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(t)
		},
	}
)

func init() {
	targetsCmd.Flags().StringVar(&targetsFile, "targets", "", "targets file replacing the built-in rules")
}
