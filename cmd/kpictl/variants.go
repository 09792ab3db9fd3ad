package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"kpiassess/internal/domain/reports"
)

func newVariantsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List report variants and the input fields they read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := opts.catalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, variant := range catalog.List() {
				marker := ""
				if variant.Key == catalog.DefaultKey() {
					marker = " (default)"
				}
				fmt.Fprintf(out, "%s%s: %s\n", variant.Key, marker, variant.Title)
				for _, category := range variant.Categories {
					names := make([]string, 0, len(category.KPIs))
					for _, kpi := range category.KPIs {
						names = append(names, kpi.Name)
					}
					fmt.Fprintf(out, "  %s: %s\n", reports.CategoryLabel(category.Name, variant.Weights[category.Name]), strings.Join(names, ", "))
				}
				fmt.Fprintf(out, "  fields: %s\n", strings.Join(variant.Fields(), ", "))
			}
			return nil
		},
	}
}
