package main

import (
	"github.com/spf13/cobra"

	"omibyte.io/hwc/builder"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print hwc environment information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		builder.Environment().Print(cmd.OutOrStdout())
	},
}
