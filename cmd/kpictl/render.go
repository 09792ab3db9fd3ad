package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"kpiassess/internal/domain/reports"
	"kpiassess/internal/platform/pdf"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		input    string
		outDir   string
		title    string
		logoPath string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the PDF report for an input file",
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
			service := reports.NewService(catalog, pdf.New(), reports.WithBranding(title, logoPath))
			out, err := service.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			path := filepath.Join(outDir, out.Filename)
			if err := os.WriteFile(path, out.Data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (overall %.1f%%)\n", path, out.Scorecard.Overall)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "YAML or JSON request file")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory the PDF is written to")
	cmd.Flags().StringVar(&title, "title", envOr("REPORT_TITLE", reports.DefaultTitle), "Report title")
	cmd.Flags().StringVar(&logoPath, "logo", os.Getenv("REPORT_LOGO_PATH"), "PNG or JPEG logo drawn in the header")
	return cmd
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
