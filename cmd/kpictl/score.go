package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"kpiassess/internal/domain/assessment"
)

func newScoreCmd(opts *rootOptions) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print the scorecard for an input file as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := readRequest(input)
			if err != nil {
				return err
			}
			catalog, err := opts.catalog()
			if err != nil {
				return err
			}
			variant, err := catalog.Get(req.Variant)
			if err != nil {
				return err
			}
			if err := checkValues(variant, req.Values); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(assessment.Evaluate(variant, req.Values))
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "YAML or JSON request file")
	return cmd
}
