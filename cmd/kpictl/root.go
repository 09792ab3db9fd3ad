package main

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"kpiassess/internal/domain/assessment"
	"kpiassess/internal/domain/reports"
)

type rootOptions struct {
	variantsFile   string
	defaultVariant string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "kpictl",
		Short:         "Score KPI assessments and render self-assessment reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.variantsFile, "variants-file", os.Getenv("VARIANTS_FILE"), "YAML file with report variants (built-in catalog when empty)")
	cmd.PersistentFlags().StringVar(&opts.defaultVariant, "default-variant", os.Getenv("DEFAULT_VARIANT"), "Variant used when the input names none")

	cmd.AddCommand(newVariantsCmd(opts))
	cmd.AddCommand(newScoreCmd(opts))
	cmd.AddCommand(newRenderCmd(opts))
	return cmd
}

func (o *rootOptions) catalog() (*assessment.Catalog, error) {
	var (
		catalog *assessment.Catalog
		err     error
	)
	if o.variantsFile != "" {
		catalog, err = assessment.LoadCatalogFile(o.variantsFile)
	} else {
		catalog, err = assessment.DefaultCatalog()
	}
	if err != nil {
		return nil, err
	}
	if o.defaultVariant != "" {
		if err := catalog.SetDefault(o.defaultVariant); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// readRequest loads a request file. JSON input works too since it is valid YAML.
func readRequest(path string) (reports.Request, error) {
	var req reports.Request
	if path == "" {
		return req, fmt.Errorf("--input is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("read input: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("parse input %s: %w", path, err)
	}
	for field, value := range req.Values {
		if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			return req, fmt.Errorf("value %s must be a finite number, zero or greater", field)
		}
	}
	return req, nil
}

// checkValues rejects input keys the variant never reads, so a misspelled
// field fails instead of scoring as 0.
func checkValues(variant assessment.Variant, values assessment.Inputs) error {
	known := make(map[string]bool)
	for _, field := range variant.Fields() {
		known[field] = true
	}
	var unknown []string
	for field := range values {
		if !known[field] {
			unknown = append(unknown, field)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("variant %s has no input named %s", variant.Key, strings.Join(unknown, ", "))
}
