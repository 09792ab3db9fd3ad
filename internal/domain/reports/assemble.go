package reports

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"kpiassess/internal/domain/assessment"
)

type AssembleOptions struct {
	Title       string
	LogoPath    string
	GeneratedAt time.Time
}

// Assemble maps a validated profile and a scorecard onto a Document. Sections
// follow the scorecard's category order and empty categories are dropped.
func Assemble(profile EmployeeProfile, card assessment.Scorecard, opts AssembleOptions) (Document, error) {
	if err := profile.Validate(); err != nil {
		return Document{}, err
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = DefaultTitle
	}
	generatedAt := opts.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	header := []HeaderField{
		{Label: "Employee Name", Value: strings.TrimSpace(profile.Name)},
		{Label: "Manager Name", Value: strings.TrimSpace(profile.Manager)},
		{Label: "Assessment Period", Value: strings.TrimSpace(profile.Period)},
	}
	if id := strings.TrimSpace(profile.ID); id != "" {
		header = append(header, HeaderField{Label: "Employee ID", Value: id})
	}
	header = append(header, HeaderField{Label: "Date of Generation", Value: generatedAt.Format(dateLayout)})

	doc := Document{
		Title:        title,
		LogoPath:     opts.LogoPath,
		Header:       header,
		GeneratedOn:  generatedAt,
		OverallLabel: "Overall Score",
		OverallScore: strconv.FormatFloat(card.Overall, 'f', 1, 64) + "%",
		Heading:      ResultsHeading,
		Columns:      Columns,
		Sections:     make([]Section, 0, len(card.Categories)),
		Signatures:   make([]Signature, 0, len(SignatureLines)),
	}

	for _, category := range card.Categories {
		if len(category.Rows) == 0 {
			continue
		}
		section := Section{
			Category: category.Category,
			Label:    CategoryLabel(category.Category, card.Weights[category.Category]),
			Average:  category.Average,
			Rows:     make([]Row, 0, len(category.Rows)),
		}
		for _, result := range category.Rows {
			section.Rows = append(section.Rows, Row{KPI: result.Name, Inputs: result.Inputs, Result: result.Result})
		}
		doc.Sections = append(doc.Sections, section)
	}

	for _, label := range SignatureLines {
		doc.Signatures = append(doc.Signatures, Signature{Label: label})
	}
	return doc, nil
}

// CategoryLabel appends the weight as a percentage, e.g. "Processes (30%)".
// Zero weights leave the name untouched.
func CategoryLabel(name string, weight float64) string {
	if !(weight > 0) || math.IsInf(weight, 0) {
		return name
	}
	percent := math.Round(weight*100*100) / 100
	return name + " (" + strconv.FormatFloat(percent, 'f', -1, 64) + "%)"
}

// Filename derives the download name from the employee name. Every rune that
// is not an ASCII letter or digit becomes an underscore so the name is safe in
// a Content-Disposition header.
func Filename(employeeName string) string {
	sanitized := strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return '_'
	}, strings.TrimSpace(employeeName))
	if sanitized == "" {
		return "Self_Assessment.pdf"
	}
	return "Self_Assessment_" + sanitized + ".pdf"
}
