package assessment

// KPIDefinition is the static description of one metric. Numerator and
// Denominator name the input fields the figures are read from.
// DecimalNumerator marks a fractional figure such as hours, which always
// shows at least one decimal place.
type KPIDefinition struct {
	Name             string `yaml:"name" json:"name"`
	Kind             Kind   `yaml:"kind" json:"kind"`
	Scored           bool   `yaml:"scored" json:"scored"`
	Numerator        string `yaml:"numerator" json:"numerator"`
	Denominator      string `yaml:"denominator,omitempty" json:"denominator,omitempty"`
	NumeratorUnit    string `yaml:"numerator_unit,omitempty" json:"numeratorUnit,omitempty"`
	DenominatorUnit  string `yaml:"denominator_unit,omitempty" json:"denominatorUnit,omitempty"`
	DecimalNumerator bool   `yaml:"decimal_numerator,omitempty" json:"decimalNumerator,omitempty"`
	ResultUnit       string `yaml:"result_unit,omitempty" json:"resultUnit,omitempty"`
	ResultNote       string `yaml:"result_note,omitempty" json:"resultNote,omitempty"`
}

type Category struct {
	Name string          `yaml:"name" json:"name"`
	KPIs []KPIDefinition `yaml:"kpis" json:"kpis"`
}

// Weights maps a category name to its share of the overall score.
type Weights map[string]float64

type Variant struct {
	Key         string     `yaml:"key" json:"key"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Categories  []Category `yaml:"categories" json:"categories"`
	Weights     Weights    `yaml:"weights" json:"weights"`
}

// Inputs holds the raw figures keyed by field name. Missing fields read as 0.
type Inputs map[string]float64

func (in Inputs) Value(field string) float64 {
	if in == nil {
		return 0
	}
	return in[field]
}

type KPIResult struct {
	Name   string  `json:"name"`
	Kind   Kind    `json:"kind"`
	Scored bool    `json:"scored"`
	Inputs string  `json:"inputs"`
	Result string  `json:"result"`
	Value  float64 `json:"value"`
}

type CategoryResults struct {
	Category string      `json:"category"`
	Weight   float64     `json:"weight"`
	Weighted bool        `json:"weighted"`
	Average  float64     `json:"average"`
	Rows     []KPIResult `json:"rows"`
}

func (c CategoryResults) Lookup(name string) (KPIResult, bool) {
	for _, row := range c.Rows {
		if row.Name == name {
			return row, true
		}
	}
	return KPIResult{}, false
}

type Scorecard struct {
	Variant    string             `json:"variant"`
	Title      string             `json:"title"`
	Categories []CategoryResults  `json:"categories"`
	Averages   map[string]float64 `json:"averages"`
	Weights    Weights            `json:"weights"`
	Overall    float64            `json:"overall"`
}

func (s Scorecard) Category(name string) (CategoryResults, bool) {
	for _, category := range s.Categories {
		if category.Category == name {
			return category, true
		}
	}
	return CategoryResults{}, false
}
