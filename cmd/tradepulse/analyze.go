package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "analyze <file|dir>...",
		Short: "Analyze trade histories and print the result as JSON",
		Long: `Analyze one or more trade history files and print the analysis as JSON.
Directories contribute every .csv and .xlsx file directly inside them.

Examples:
  tradepulse analyze history.csv
  tradepulse analyze exports/ --symbol ETH
  tradepulse analyze a.xlsx b.csv --compact`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.runtime(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.close()

			report, err := rt.analyze(cmd.Context(), args)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				encoder.SetIndent("", "  ")
			}
			return encoder.Encode(report)
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Print JSON on a single line")
	return cmd
}
