package assessment

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// ComputeRatio returns numerator/denominator as a percentage. A zero or
// negative denominator yields 0, as does any non-finite result.
func ComputeRatio(numerator, denominator float64) float64 {
	if !(denominator > 0) {
		return 0
	}
	return finite(numerator / denominator * 100)
}

// ComputeRate is ComputeRatio without the percentage scaling.
func ComputeRate(numerator, denominator float64) float64 {
	if !(denominator > 0) {
		return 0
	}
	return finite(numerator / denominator)
}

func FormatResult(value float64, kind Kind) string {
	switch kind {
	case KindRate:
		return formatOneDecimal(value) + " " + defaultRateUnit
	case KindCount:
		return formatCount(value)
	default:
		return formatOneDecimal(value) + "%"
	}
}

func AverageCategory(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var total float64
	for _, score := range scores {
		total += score
	}
	return finite(total / float64(len(scores)))
}

// ComputeOverallScore is the weighted mean of the category averages over the
// keys of weights. A weighted category with no average contributes 0 but still
// counts towards the denominator; unweighted categories are ignored.
func ComputeOverallScore(averages map[string]float64, weights Weights) float64 {
	var weightedSum, totalWeight float64
	categories := make([]string, 0, len(weights))
	for category := range weights {
		categories = append(categories, category)
	}
	slices.Sort(categories)
	for _, category := range categories {
		weight := weights[category]
		weightedSum += averages[category] * weight
		totalWeight += weight
	}
	if !(totalWeight > 0) {
		return 0
	}
	return finite(weightedSum / totalWeight)
}

func (k KPIDefinition) Compute(in Inputs) float64 {
	numerator := in.Value(k.Numerator)
	switch k.Kind {
	case KindRate:
		return ComputeRate(numerator, in.Value(k.Denominator))
	case KindCount:
		if !(numerator > 0) {
			return 0
		}
		return finite(numerator)
	default:
		return ComputeRatio(numerator, in.Value(k.Denominator))
	}
}

// FormatResult renders value with the KPI's own unit and note, falling back
// to the kind's default suffix.
func (k KPIDefinition) FormatResult(value float64) string {
	var out string
	switch {
	case k.Kind == KindRate && k.ResultUnit != "":
		out = formatOneDecimal(value) + " " + k.ResultUnit
	case k.Kind == KindCount && k.ResultUnit != "":
		out = formatCount(value) + " " + k.ResultUnit
	default:
		out = FormatResult(value, k.Kind)
	}
	if k.ResultNote != "" {
		out += " (" + k.ResultNote + ")"
	}
	return out
}

func (k KPIDefinition) FormatInputs(in Inputs) string {
	format := FormatFigure
	if k.DecimalNumerator {
		format = FormatDecimalFigure
	}
	numerator := withUnit(format(in.Value(k.Numerator)), k.NumeratorUnit)
	if k.Kind == KindCount {
		return numerator
	}
	return numerator + " / " + withUnit(FormatFigure(in.Value(k.Denominator)), k.DenominatorUnit)
}

func (k KPIDefinition) Evaluate(in Inputs) KPIResult {
	value := k.Compute(in)
	return KPIResult{
		Name:   k.Name,
		Kind:   k.Kind,
		Scored: k.Scored,
		Inputs: k.FormatInputs(in),
		Result: k.FormatResult(value),
		Value:  value,
	}
}

// FormatFigure prints integral values without decimals and everything else
// in its shortest decimal form.
func FormatFigure(value float64) string {
	value = finite(value)
	if value == math.Trunc(value) && math.Abs(value) < 1e15 {
		return strconv.FormatFloat(value, 'f', 0, 64)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// FormatDecimalFigure is FormatFigure for fractional quantities: whole values
// keep one decimal place (12.0).
func FormatDecimalFigure(value float64) string {
	value = finite(value)
	if value == math.Trunc(value) && math.Abs(value) < 1e15 {
		return strconv.FormatFloat(value, 'f', 1, 64)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatOneDecimal(value float64) string {
	return strconv.FormatFloat(finite(value), 'f', 1, 64)
}

func formatCount(value float64) string {
	return strconv.FormatFloat(math.Round(finite(value)), 'f', 0, 64)
}

func withUnit(value, unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return value
	}
	return value + " " + unit
}

func finite(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value == 0 {
		return 0
	}
	return value
}
