package assessment

import (
	"math"
	"testing"
)

func standardVariant(t *testing.T) Variant {
	t.Helper()
	catalog, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("failed to load builtin catalog: %v", err)
	}
	variant, err := catalog.Get(VariantStandard)
	if err != nil {
		t.Fatalf("failed to get standard variant: %v", err)
	}
	return variant
}

func TestEvaluateTaskCompletion(t *testing.T) {
	card := Evaluate(standardVariant(t), Inputs{"tasks_completed": 42, "tasks_planned": 50})

	processes, ok := card.Category(CategoryProcesses)
	if !ok {
		t.Fatal("expected processes category")
	}
	row, ok := processes.Lookup("Task Completion")
	if !ok {
		t.Fatal("expected task completion row")
	}
	if row.Result != "84.0%" {
		t.Fatalf("expected 84.0%%, got %q", row.Result)
	}
	if row.Inputs != "42 / 50" {
		t.Fatalf("expected inputs 42 / 50, got %q", row.Inputs)
	}
}

func TestEvaluateZeroIncidents(t *testing.T) {
	card := Evaluate(standardVariant(t), Inputs{"total_time_incidents": 6, "total_incidents": 0})

	processes, _ := card.Category(CategoryProcesses)
	row, ok := processes.Lookup("Incident Resolution Time")
	if !ok {
		t.Fatal("expected incident resolution row")
	}
	if row.Result != "0.0 hrs/inc" {
		t.Fatalf("expected 0.0 hrs/inc, got %q", row.Result)
	}
	if row.Inputs != "6.0 hrs / 0 incidents" {
		t.Fatalf("unexpected inputs %q", row.Inputs)
	}
}

func TestEvaluateInformationalRowsAreNotAveraged(t *testing.T) {
	card := Evaluate(standardVariant(t), Inputs{
		"tasks_completed":          10,
		"tasks_planned":            10,
		"total_time_incidents":     500,
		"total_incidents":          1,
		"incidents_root_cause":     1,
		"total_incidents_occurred": 2,
	})

	processes, _ := card.Category(CategoryProcesses)
	if len(processes.Rows) != 3 {
		t.Fatalf("expected all three rows displayed, got %d", len(processes.Rows))
	}
	if processes.Average != 75 {
		t.Fatalf("expected average of scored rows only (75), got %v", processes.Average)
	}
}

func TestEvaluateAllEmpty(t *testing.T) {
	card := Evaluate(standardVariant(t), nil)
	if card.Overall != 0 {
		t.Fatalf("expected overall 0, got %v", card.Overall)
	}
	for _, category := range card.Categories {
		if category.Average != 0 {
			t.Fatalf("expected zero average for %s, got %v", category.Category, category.Average)
		}
	}
}

func TestEvaluateNoScoredKPIsAndNoWeights(t *testing.T) {
	variant := Variant{
		Key: "bare",
		Categories: []Category{
			{Name: "Processes", KPIs: []KPIDefinition{{Name: "Logged", Kind: KindCount, Numerator: "logged"}}},
			{Name: "Teams"},
		},
		Weights: Weights{"Processes": 0, "Teams": 0},
	}
	card := Evaluate(variant, Inputs{"logged": 4})
	if card.Overall != 0 {
		t.Fatalf("expected overall 0, got %v", card.Overall)
	}
	if math.IsNaN(card.Averages["Processes"]) || card.Averages["Processes"] != 0 {
		t.Fatalf("expected zero average, got %v", card.Averages["Processes"])
	}
}

func TestEvaluateOverallScore(t *testing.T) {
	card := Evaluate(standardVariant(t), Inputs{
		"tasks_completed":          42,
		"tasks_planned":            50,
		"incidents_root_cause":     3,
		"total_incidents_occurred": 4,
		"positive_responses":       45,
		"total_responses":          50,
		"tickets_first_contact":    7,
		"total_tickets_handled":    10,
		"staff_certified":          4,
		"staff_total":              5,
		"mandatory_completed":      10,
		"mandatory_required":       10,
		"staff_satisfied":          3,
		"staff_responded":          4,
		"projects_successful":      1,
		"projects_total":           2,
	})

	processes := (84.0 + 75.0) / 2
	customers := (90.0 + 70.0) / 2
	teams := (80.0 + 100.0 + 75.0 + 50.0) / 4
	want := (processes*0.3 + customers*0.3 + teams*0.2) / 0.8
	if math.Abs(card.Overall-want) > 1e-9 {
		t.Fatalf("expected overall %v, got %v", want, card.Overall)
	}
	if _, ok := card.Averages[CategoryFinancial]; !ok {
		t.Fatal("expected financial average to be reported")
	}
}

func TestEvaluatePreservesDefinitionOrder(t *testing.T) {
	variant := standardVariant(t)
	card := Evaluate(variant, nil)

	if len(card.Categories) != len(variant.Categories) {
		t.Fatalf("expected %d categories, got %d", len(variant.Categories), len(card.Categories))
	}
	for i, category := range variant.Categories {
		if card.Categories[i].Category != category.Name {
			t.Fatalf("expected category %d to be %s, got %s", i, category.Name, card.Categories[i].Category)
		}
		for j, kpi := range category.KPIs {
			if card.Categories[i].Rows[j].Name != kpi.Name {
				t.Fatalf("expected row %d of %s to be %s, got %s", j, category.Name, kpi.Name, card.Categories[i].Rows[j].Name)
			}
		}
	}
}

func TestVariantFields(t *testing.T) {
	variant := Variant{
		Categories: []Category{
			{Name: "A", KPIs: []KPIDefinition{
				{Name: "one", Kind: KindPercentage, Numerator: "a", Denominator: "b"},
				{Name: "two", Kind: KindPercentage, Numerator: "c", Denominator: "b"},
				{Name: "three", Kind: KindCount, Numerator: "d", Denominator: "ignored"},
			}},
		},
	}
	fields := variant.Fields()
	want := []string{"a", "b", "c", "d"}
	if len(fields) != len(want) {
		t.Fatalf("expected %v, got %v", want, fields)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, fields)
		}
	}
}
