package assessment

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed variants.yaml
var builtinVariants []byte

type catalogFile struct {
	Default  string    `yaml:"default"`
	Variants []Variant `yaml:"variants"`
}

// Catalog is the read-only set of report variants loaded at startup.
type Catalog struct {
	defaultKey string
	variants   []Variant
	byKey      map[string]int
}

func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(builtinVariants)
}

func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read variants file: %w", err)
	}
	return LoadCatalog(data)
}

func LoadCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	if len(file.Variants) == 0 {
		return nil, fmt.Errorf("%w: no variants defined", ErrInvalidCatalog)
	}

	catalog := &Catalog{
		defaultKey: strings.TrimSpace(file.Default),
		variants:   make([]Variant, 0, len(file.Variants)),
		byKey:      make(map[string]int, len(file.Variants)),
	}
	for _, variant := range file.Variants {
		variant = normalizeVariant(variant)
		if err := validateVariant(variant); err != nil {
			return nil, err
		}
		if _, exists := catalog.byKey[variant.Key]; exists {
			return nil, fmt.Errorf("%w: duplicate variant %q", ErrInvalidCatalog, variant.Key)
		}
		if variant.Weights == nil {
			variant.Weights = Weights{}
		}
		catalog.byKey[variant.Key] = len(catalog.variants)
		catalog.variants = append(catalog.variants, variant)
	}

	if catalog.defaultKey == "" {
		catalog.defaultKey = catalog.variants[0].Key
	}
	if _, ok := catalog.byKey[catalog.defaultKey]; !ok {
		return nil, fmt.Errorf("%w: default variant %q is not defined", ErrInvalidCatalog, catalog.defaultKey)
	}
	return catalog, nil
}

// normalizeVariant trims the names that weights and lookups match on.
func normalizeVariant(variant Variant) Variant {
	variant.Key = strings.TrimSpace(variant.Key)
	categories := make([]Category, len(variant.Categories))
	for i, category := range variant.Categories {
		category.Name = strings.TrimSpace(category.Name)
		kpis := make([]KPIDefinition, len(category.KPIs))
		for j, kpi := range category.KPIs {
			kpi.Name = strings.TrimSpace(kpi.Name)
			kpis[j] = kpi
		}
		category.KPIs = kpis
		categories[i] = category
	}
	variant.Categories = categories
	if variant.Weights != nil {
		weights := make(Weights, len(variant.Weights))
		for name, weight := range variant.Weights {
			weights[strings.TrimSpace(name)] = weight
		}
		variant.Weights = weights
	}
	return variant
}

func validateVariant(variant Variant) error {
	if variant.Key == "" {
		return fmt.Errorf("%w: variant key is required", ErrInvalidCatalog)
	}
	categories := make(map[string]bool, len(variant.Categories))
	for _, category := range variant.Categories {
		name := category.Name
		if name == "" {
			return fmt.Errorf("%w: variant %q has a category without a name", ErrInvalidCatalog, variant.Key)
		}
		if categories[name] {
			return fmt.Errorf("%w: variant %q repeats category %q", ErrInvalidCatalog, variant.Key, name)
		}
		categories[name] = true

		kpis := make(map[string]bool, len(category.KPIs))
		for _, kpi := range category.KPIs {
			if err := validateKPI(variant.Key, name, kpi); err != nil {
				return err
			}
			if kpis[kpi.Name] {
				return fmt.Errorf("%w: variant %q category %q repeats kpi %q", ErrInvalidCatalog, variant.Key, name, kpi.Name)
			}
			kpis[kpi.Name] = true
		}
	}
	for category, weight := range variant.Weights {
		if weight < 0 {
			return fmt.Errorf("%w: variant %q has negative weight %v for %q", ErrInvalidCatalog, variant.Key, weight, category)
		}
	}
	return nil
}

func validateKPI(variantKey, category string, kpi KPIDefinition) error {
	if kpi.Name == "" {
		return fmt.Errorf("%w: variant %q category %q has a kpi without a name", ErrInvalidCatalog, variantKey, category)
	}
	if !kpi.Kind.Valid() {
		return fmt.Errorf("%w: kpi %q has unknown kind %q", ErrInvalidCatalog, kpi.Name, kpi.Kind)
	}
	if strings.TrimSpace(kpi.Numerator) == "" {
		return fmt.Errorf("%w: kpi %q requires a numerator field", ErrInvalidCatalog, kpi.Name)
	}
	if kpi.Kind != KindCount && strings.TrimSpace(kpi.Denominator) == "" {
		return fmt.Errorf("%w: kpi %q requires a denominator field", ErrInvalidCatalog, kpi.Name)
	}
	return nil
}

func (c *Catalog) DefaultKey() string {
	return c.defaultKey
}

// SetDefault changes the variant used when a request names none.
func (c *Catalog) SetDefault(key string) error {
	key = strings.TrimSpace(key)
	if _, ok := c.byKey[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVariant, key)
	}
	c.defaultKey = key
	return nil
}

// Get returns the variant for key; an empty key selects the default variant.
func (c *Catalog) Get(key string) (Variant, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = c.defaultKey
	}
	idx, ok := c.byKey[key]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %s", ErrUnknownVariant, key)
	}
	return c.variants[idx], nil
}

func (c *Catalog) List() []Variant {
	out := make([]Variant, len(c.variants))
	copy(out, c.variants)
	return out
}
