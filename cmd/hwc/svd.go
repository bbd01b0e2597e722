package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"omibyte.io/hwc/regschema"
	"omibyte.io/hwc/regschema/svd"
)

var (
	svdOpts = struct {
		output string
		pkg    string
		prefix string
	}{}

	svdCmd = &cobra.Command{
		Use:   "svd [flags] device.svd",
		Short: "Convert a CMSIS-SVD description into a register schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			device, err := svd.Decode(file)
			if err != nil {
				return err
			}
			logger.Info("decoded device", "name", device.Name, "cpu", device.CPU.Name, "peripherals", len(device.Peripherals.Elements))

			pkg := svdOpts.pkg
			if pkg == "" {
				pkg = strings.ToLower(device.Name)
			}
			schema, err := svd.Convert(device, pkg, svdOpts.prefix)
			if err != nil {
				// Unusable fields are dropped; the rest of the schema is still written.
				logger.Warn("incomplete conversion", "error", err)
			}

			var w io.Writer = cmd.OutOrStdout()
			if svdOpts.output != "" {
				out, err := os.Create(svdOpts.output)
				if err != nil {
					return err
				}
				defer out.Close()
				w = out
			}
			return regschema.Save(w, schema)
		},
	}
)

func init() {
	svdCmd.Flags().StringVarP(&svdOpts.output, "output", "o", "", "output schema file. Default: stdout")
	svdCmd.Flags().StringVar(&svdOpts.pkg, "package", "", "Go package of the schema. Default: device name")
	svdCmd.Flags().StringVar(&svdOpts.prefix, "prefix", "", "prefix of every block link symbol")
}
