package reports

import (
	"strings"
	"time"
)

const (
	FieldName    = "name"
	FieldManager = "manager"
	FieldPeriod  = "period"

	DefaultTitle   = "Employee Self-Assessment Report"
	ResultsHeading = "Assessment Results"

	dateLayout = "January 02, 2006"
)

var (
	Columns        = [3]string{"Individual KPI", "Employee Input Figures", "Result / Score"}
	SignatureLines = []string{"Employee Signature", "Direct Manager Signature"}
)

type EmployeeProfile struct {
	Name    string `json:"name" yaml:"name"`
	Manager string `json:"manager" yaml:"manager"`
	Period  string `json:"period" yaml:"period"`
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
}

func (p EmployeeProfile) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, FieldName)
	}
	if strings.TrimSpace(p.Manager) == "" {
		missing = append(missing, FieldManager)
	}
	if strings.TrimSpace(p.Period) == "" {
		missing = append(missing, FieldPeriod)
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Document is the declarative description of a report. Renderers lay it out;
// every string in it is final display text.
type Document struct {
	Title        string        `json:"title"`
	LogoPath     string        `json:"logoPath,omitempty"`
	Header       []HeaderField `json:"header"`
	GeneratedOn  time.Time     `json:"generatedOn"`
	OverallLabel string        `json:"overallLabel"`
	OverallScore string        `json:"overallScore"`
	Heading      string        `json:"heading"`
	Columns      [3]string     `json:"columns"`
	Sections     []Section     `json:"sections"`
	Signatures   []Signature   `json:"signatures"`
}

type HeaderField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Section struct {
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Average  float64 `json:"average"`
	Rows     []Row   `json:"rows"`
}

type Row struct {
	KPI    string `json:"kpi"`
	Inputs string `json:"inputs"`
	Result string `json:"result"`
}

type Signature struct {
	Label string `json:"label"`
}

// Renderer turns a Document into the finished binary file.
type Renderer interface {
	Render(doc Document) ([]byte, error)
}
