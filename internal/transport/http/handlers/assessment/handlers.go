package assessmenthandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kpiassess/internal/domain/assessment"
	"kpiassess/internal/domain/audit"
	"kpiassess/internal/domain/reports"
	"kpiassess/internal/requestctx"
	"kpiassess/internal/transport/http/api"
	"kpiassess/internal/transport/http/middleware"
	"kpiassess/internal/transport/http/shared"
)

type AuditRecorder interface {
	Record(ctx context.Context, evt audit.Event) error
}

type Handler struct {
	Service *reports.Service
	Audit   AuditRecorder
}

// NewHandler wires the assessment routes. recorder may be nil when no
// database is configured.
func NewHandler(service *reports.Service, recorder AuditRecorder) *Handler {
	return &Handler{Service: service, Audit: recorder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/assessments", func(r chi.Router) {
		r.Get("/variants", h.handleListVariants)
		r.Post("/score", h.handleScore)
		r.Post("/report", h.handleReport)
	})
}

type categoryView struct {
	Name   string                     `json:"name"`
	Label  string                     `json:"label"`
	Weight float64                    `json:"weight"`
	KPIs   []assessment.KPIDefinition `json:"kpis"`
}

type variantView struct {
	Key         string         `json:"key"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Default     bool           `json:"default"`
	Categories  []categoryView `json:"categories"`
	Fields      []string       `json:"fields"`
}

func (h *Handler) handleListVariants(w http.ResponseWriter, r *http.Request) {
	defaultKey := h.Service.DefaultVariant()
	variants := h.Service.Variants()
	out := make([]variantView, 0, len(variants))
	for _, variant := range variants {
		view := variantView{
			Key:         variant.Key,
			Title:       variant.Title,
			Description: variant.Description,
			Default:     variant.Key == defaultKey,
			Categories:  make([]categoryView, 0, len(variant.Categories)),
			Fields:      variant.Fields(),
		}
		for _, category := range variant.Categories {
			weight := variant.Weights[category.Name]
			view.Categories = append(view.Categories, categoryView{
				Name:   category.Name,
				Label:  reports.CategoryLabel(category.Name, weight),
				Weight: weight,
				KPIs:   category.KPIs,
			})
		}
		out = append(out, view)
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var req reports.Request
	if !shared.DecodeJSON(w, r, &req, requestID) {
		return
	}
	if !h.checkInputs(w, req, requestID) {
		return
	}

	card, err := h.Service.Score(req.Variant, req.Values)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}
	api.Success(w, card, requestID)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var req reports.Request
	if !shared.DecodeJSON(w, r, &req, requestID) {
		return
	}
	if !h.checkInputs(w, req, requestID) {
		return
	}

	out, err := h.Service.Generate(r.Context(), req)
	if err != nil {
		h.fail(w, err, requestID)
		return
	}

	if h.Audit != nil {
		evt := audit.Event{
			Action:       audit.ActionReportGenerated,
			Variant:      out.Scorecard.Variant,
			OverallScore: out.Scorecard.Overall,
			RequestID:    requestID,
			IP:           requestctx.GetClientIP(r.Context()),
		}
		if err := h.Audit.Record(r.Context(), evt); err != nil {
			slog.Warn("audit record failed", "err", err, "requestId", requestID)
		}
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+out.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Data); err != nil {
		slog.Warn("report write failed", "err", err, "requestId", requestID)
	}
}

// checkInputs resolves the variant and rejects figures no KPI can use.
func (h *Handler) checkInputs(w http.ResponseWriter, req reports.Request, requestID string) bool {
	variant, err := h.Service.Variant(req.Variant)
	if err != nil {
		h.fail(w, err, requestID)
		return false
	}

	known := make(map[string]bool)
	for _, field := range variant.Fields() {
		known[field] = true
	}
	v := shared.NewValidator()
	for field, value := range req.Values {
		if !known[field] {
			v.Add("values."+field, "is not an input of variant "+variant.Key)
			continue
		}
		v.NonNegative("values."+field, value)
	}
	return !v.Reject(w, requestID)
}

func (h *Handler) fail(w http.ResponseWriter, err error, requestID string) {
	var verr *reports.ValidationError
	switch {
	case errors.As(err, &verr):
		issues := make([]shared.ValidationIssue, 0, len(verr.Fields))
		for _, field := range verr.Fields {
			issues = append(issues, shared.ValidationIssue{Field: "employee." + field, Reason: "is required"})
		}
		shared.FailValidation(w, requestID, issues)
	case errors.Is(err, assessment.ErrUnknownVariant):
		api.Fail(w, http.StatusNotFound, "variant_not_found", "unknown assessment variant", requestID)
	case errors.Is(err, reports.ErrRender):
		api.Fail(w, http.StatusInternalServerError, "report_render_failed", "failed to render report", requestID)
	default:
		slog.Error("assessment request failed", "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "unexpected error", requestID)
	}
}
