package reports

import (
	"errors"
	"testing"
	"time"

	"kpiassess/internal/domain/assessment"
)

func validProfile() EmployeeProfile {
	return EmployeeProfile{Name: "Alex Doe", Manager: "Sam Lee", Period: "Q3 2025"}
}

func sampleScorecard() assessment.Scorecard {
	return assessment.Scorecard{
		Variant: "standard",
		Categories: []assessment.CategoryResults{
			{Category: "Financial"},
			{Category: "Processes", Average: 84, Rows: []assessment.KPIResult{
				{Name: "Task Completion", Inputs: "42 / 50", Result: "84.0%", Value: 84, Scored: true},
				{Name: "Incident Resolution Time", Inputs: "0.0 hrs / 0 incidents", Result: "0.0 hrs/inc"},
			}},
			{Category: "Teams", Average: 50, Rows: []assessment.KPIResult{
				{Name: "Project Success Rate", Inputs: "1 / 2", Result: "50.0%", Value: 50, Scored: true},
			}},
		},
		Weights: assessment.Weights{"Processes": 0.3, "Teams": 0},
		Overall: 72.26,
	}
}

func TestProfileValidate(t *testing.T) {
	if err := validProfile().Validate(); err != nil {
		t.Fatalf("expected valid profile, got %v", err)
	}

	profile := validProfile()
	profile.Manager = "   "
	err := profile.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0] != FieldManager {
		t.Fatalf("expected manager to be reported, got %v", verr.Fields)
	}

	err = EmployeeProfile{}.Validate()
	if !errors.As(err, &verr) || len(verr.Fields) != 3 {
		t.Fatalf("expected three missing fields, got %v", err)
	}
	if err.Error() != "missing required fields: name, manager, period" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAssembleRejectsMissingManager(t *testing.T) {
	profile := validProfile()
	profile.Manager = ""
	doc, err := Assemble(profile, sampleScorecard(), AssembleOptions{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(doc.Sections) != 0 || doc.Title != "" {
		t.Fatalf("expected no document, got %+v", doc)
	}
}

func TestAssembleBuildsDocument(t *testing.T) {
	generated := time.Date(2025, time.July, 4, 15, 0, 0, 0, time.UTC)
	profile := validProfile()
	profile.ID = "E-104"
	doc, err := Assemble(profile, sampleScorecard(), AssembleOptions{GeneratedAt: generated, LogoPath: "logo.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != DefaultTitle {
		t.Fatalf("expected default title, got %q", doc.Title)
	}
	if doc.LogoPath != "logo.png" {
		t.Fatalf("expected logo path to pass through, got %q", doc.LogoPath)
	}
	if doc.OverallScore != "72.3%" {
		t.Fatalf("unexpected overall score %q", doc.OverallScore)
	}

	wantHeader := []HeaderField{
		{Label: "Employee Name", Value: "Alex Doe"},
		{Label: "Manager Name", Value: "Sam Lee"},
		{Label: "Assessment Period", Value: "Q3 2025"},
		{Label: "Employee ID", Value: "E-104"},
		{Label: "Date of Generation", Value: "July 04, 2025"},
	}
	if len(doc.Header) != len(wantHeader) {
		t.Fatalf("expected %d header fields, got %+v", len(wantHeader), doc.Header)
	}
	for i, field := range wantHeader {
		if doc.Header[i] != field {
			t.Fatalf("expected header %d to be %+v, got %+v", i, field, doc.Header[i])
		}
	}

	if len(doc.Signatures) != 2 || doc.Signatures[0].Label != "Employee Signature" || doc.Signatures[1].Label != "Direct Manager Signature" {
		t.Fatalf("unexpected signature block %+v", doc.Signatures)
	}
	if doc.Columns != Columns {
		t.Fatalf("unexpected columns %v", doc.Columns)
	}
}

func TestAssembleSkipsEmptyCategories(t *testing.T) {
	doc, err := Assemble(validProfile(), sampleScorecard(), AssembleOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	for _, section := range doc.Sections {
		if section.Category == "Financial" {
			t.Fatal("expected empty financial category to be omitted")
		}
	}
}

func TestAssembleLabelsAndRowOrder(t *testing.T) {
	card := sampleScorecard()
	doc, err := Assemble(validProfile(), card, AssembleOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Sections[0].Label != "Processes (30%)" {
		t.Fatalf("expected weighted label, got %q", doc.Sections[0].Label)
	}
	if doc.Sections[1].Label != "Teams" {
		t.Fatalf("expected zero weight to drop the suffix, got %q", doc.Sections[1].Label)
	}

	source := card.Categories[1].Rows
	rows := doc.Sections[0].Rows
	for i := range source {
		if rows[i].KPI != source[i].Name || rows[i].Inputs != source[i].Inputs || rows[i].Result != source[i].Result {
			t.Fatalf("expected row %d to mirror %+v, got %+v", i, source[i], rows[i])
		}
	}
}

func TestAssembleRoundTripsVariantOrder(t *testing.T) {
	catalog, err := assessment.DefaultCatalog()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}
	variant, err := catalog.Get(assessment.VariantExtended)
	if err != nil {
		t.Fatalf("failed to get variant: %v", err)
	}
	doc, err := Assemble(validProfile(), assessment.Evaluate(variant, nil), AssembleOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Sections) != len(variant.Categories) {
		t.Fatalf("expected %d sections, got %d", len(variant.Categories), len(doc.Sections))
	}
	for i, category := range variant.Categories {
		if doc.Sections[i].Category != category.Name {
			t.Fatalf("expected section %d to be %s, got %s", i, category.Name, doc.Sections[i].Category)
		}
		for j, kpi := range category.KPIs {
			if doc.Sections[i].Rows[j].KPI != kpi.Name {
				t.Fatalf("expected row %d of %s to be %s, got %s", j, category.Name, kpi.Name, doc.Sections[i].Rows[j].KPI)
			}
		}
	}
}

func TestCategoryLabel(t *testing.T) {
	cases := []struct {
		weight float64
		want   string
	}{
		{0.3, "Processes (30%)"},
		{0.125, "Processes (12.5%)"},
		{1, "Processes (100%)"},
		{0, "Processes"},
		{-0.2, "Processes"},
	}
	for _, tc := range cases {
		if got := CategoryLabel("Processes", tc.weight); got != tc.want {
			t.Fatalf("expected %q for weight %v, got %q", tc.want, tc.weight, got)
		}
	}
}

func TestFilename(t *testing.T) {
	cases := map[string]string{
		"Alex Doe":            "Self_Assessment_Alex_Doe.pdf",
		"  Mary-Jane O'Neil ": "Self_Assessment_Mary_Jane_O_Neil.pdf",
		"Zoë":                 "Self_Assessment_Zo_.pdf",
		"../etc/passwd":       "Self_Assessment____etc_passwd.pdf",
		"":                    "Self_Assessment.pdf",
	}
	for name, want := range cases {
		if got := Filename(name); got != want {
			t.Fatalf("expected %q for %q, got %q", want, name, got)
		}
	}
}
