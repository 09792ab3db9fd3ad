package reports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kpiassess/internal/domain/assessment"
	"kpiassess/internal/platform/metrics"
	"kpiassess/internal/requestctx"
)

const (
	OutcomeSuccess         = "success"
	OutcomeValidationError = "validation_error"
	OutcomeUnknownVariant  = "unknown_variant"
	OutcomeRenderError     = "render_error"
)

type Request struct {
	Variant  string            `json:"variant" yaml:"variant"`
	Employee EmployeeProfile   `json:"employee" yaml:"employee"`
	Values   assessment.Inputs `json:"values" yaml:"values"`
}

type Output struct {
	Filename  string
	Data      []byte
	Document  Document
	Scorecard assessment.Scorecard
}

type Service struct {
	catalog  *assessment.Catalog
	renderer Renderer
	metrics  *metrics.Collector
	title    string
	logoPath string
	now      func() time.Time
}

type Option func(*Service)

func WithMetrics(collector *metrics.Collector) Option {
	return func(s *Service) {
		s.metrics = collector
	}
}

func WithBranding(title, logoPath string) Option {
	return func(s *Service) {
		s.title = title
		s.logoPath = logoPath
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(catalog *assessment.Catalog, renderer Renderer, opts ...Option) *Service {
	s := &Service{
		catalog:  catalog,
		renderer: renderer,
		title:    DefaultTitle,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Variants() []assessment.Variant {
	return s.catalog.List()
}

func (s *Service) DefaultVariant() string {
	return s.catalog.DefaultKey()
}

func (s *Service) Variant(key string) (assessment.Variant, error) {
	return s.catalog.Get(key)
}

func (s *Service) Score(variantKey string, in assessment.Inputs) (assessment.Scorecard, error) {
	variant, err := s.catalog.Get(variantKey)
	if err != nil {
		return assessment.Scorecard{}, err
	}
	return assessment.Evaluate(variant, in), nil
}

// Generate runs the whole pipeline for one request. The profile is checked
// before anything is scored so an incomplete request produces no document.
func (s *Service) Generate(ctx context.Context, req Request) (Output, error) {
	variantKey := req.Variant
	if variantKey == "" {
		variantKey = s.catalog.DefaultKey()
	}

	if err := req.Employee.Validate(); err != nil {
		s.metrics.RecordReport(s.variantLabel(variantKey), OutcomeValidationError)
		return Output{}, err
	}

	card, err := s.Score(variantKey, req.Values)
	if err != nil {
		s.metrics.RecordReport(s.variantLabel(variantKey), OutcomeUnknownVariant)
		return Output{}, err
	}

	doc, err := Assemble(req.Employee, card, AssembleOptions{
		Title:       s.title,
		LogoPath:    s.logoPath,
		GeneratedAt: s.now(),
	})
	if err != nil {
		s.metrics.RecordReport(card.Variant, OutcomeValidationError)
		return Output{}, err
	}

	start := time.Now()
	data, err := s.renderer.Render(doc)
	s.metrics.ObserveRender(time.Since(start))
	if err == nil && len(data) == 0 {
		err = errors.New("renderer returned no data")
	}
	if err != nil {
		s.metrics.RecordReport(card.Variant, OutcomeRenderError)
		attrs := append([]any{"variant", card.Variant, "err", err}, requestctx.LogAttrs(ctx)...)
		slog.WarnContext(ctx, "report render failed", attrs...)
		if errors.Is(err, ErrRender) {
			return Output{}, err
		}
		return Output{}, fmt.Errorf("%w: %w", ErrRender, err)
	}

	s.metrics.RecordReport(card.Variant, OutcomeSuccess)
	return Output{
		Filename:  Filename(req.Employee.Name),
		Data:      data,
		Document:  doc,
		Scorecard: card,
	}, nil
}

// variantLabel keeps caller-supplied keys out of metric labels.
func (s *Service) variantLabel(key string) string {
	variant, err := s.catalog.Get(key)
	if err != nil {
		return "unknown"
	}
	return variant.Key
}
