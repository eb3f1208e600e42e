package cmd

import (
	"github.com/spf13/cobra"

	"recipe-cost/core/output"
)

func newInspectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a dataset and list flagged entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.loadEngine(cmd)
			if err != nil {
				return err
			}
			return opts.render(cmd, output.InspectReport(eng.Catalog()))
		},
	}
}
