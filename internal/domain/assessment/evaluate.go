package assessment

// Evaluate scores every KPI of the variant against the inputs. Categories and
// rows keep their definition order.
func Evaluate(variant Variant, in Inputs) Scorecard {
	card := Scorecard{
		Variant:    variant.Key,
		Title:      variant.Title,
		Categories: make([]CategoryResults, 0, len(variant.Categories)),
		Averages:   make(map[string]float64, len(variant.Categories)),
		Weights:    variant.Weights.Clone(),
	}

	for _, category := range variant.Categories {
		weight, weighted := variant.Weights[category.Name]
		results := CategoryResults{
			Category: category.Name,
			Weight:   weight,
			Weighted: weighted,
			Rows:     make([]KPIResult, 0, len(category.KPIs)),
		}
		scores := make([]float64, 0, len(category.KPIs))
		for _, kpi := range category.KPIs {
			row := kpi.Evaluate(in)
			if row.Scored {
				scores = append(scores, row.Value)
			}
			results.Rows = append(results.Rows, row)
		}
		results.Average = AverageCategory(scores)
		card.Averages[category.Name] = results.Average
		card.Categories = append(card.Categories, results)
	}

	card.Overall = ComputeOverallScore(card.Averages, card.Weights)
	return card
}

func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for category, weight := range w {
		out[category] = weight
	}
	return out
}

// Fields lists the input keys the variant reads, in definition order.
func (v Variant) Fields() []string {
	seen := make(map[string]bool)
	var fields []string
	add := func(field string) {
		if field == "" || seen[field] {
			return
		}
		seen[field] = true
		fields = append(fields, field)
	}
	for _, category := range v.Categories {
		for _, kpi := range category.KPIs {
			add(kpi.Numerator)
			if kpi.Kind != KindCount {
				add(kpi.Denominator)
			}
		}
	}
	return fields
}
