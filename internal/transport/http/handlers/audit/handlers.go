package audithandler

import (
	"context"
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"kpiassess/internal/domain/audit"
	"kpiassess/internal/transport/http/api"
	"kpiassess/internal/transport/http/middleware"
	"kpiassess/internal/transport/http/shared"
)

const exportLimit = 10000

type EventLister interface {
	Count(ctx context.Context, filter audit.Filter) (int, error)
	List(ctx context.Context, filter audit.Filter, limit, offset int) ([]audit.Event, error)
}

type Handler struct {
	Service EventLister
}

func NewHandler(service EventLister) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Get("/report-events", h.handleListEvents)
		r.Get("/report-events/export", h.handleExportEvents)
	})
}

func filterFromQuery(r *http.Request) audit.Filter {
	return audit.Filter{
		Action:  r.URL.Query().Get("action"),
		Variant: r.URL.Query().Get("variant"),
	}
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, 500)
	filter := filterFromQuery(r)

	total, countErr := h.Service.Count(r.Context(), filter)
	if countErr != nil {
		slog.Warn("audit count failed", "err", countErr, "requestId", requestID)
	}

	events, err := h.Service.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list report events", requestID)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	if countErr == nil {
		shared.SetTotalCount(w, total)
	}
	api.Success(w, events, requestID)
}

func (h *Handler) handleExportEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Service.List(r.Context(), filterFromQuery(r), exportLimit, 0)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_export_failed", "failed to export report events", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=report-events.csv")
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "action", "variant", "overall_score", "request_id", "ip", "created_at"}); err != nil {
		slog.Warn("audit export header failed", "err", err)
	}
	for _, evt := range events {
		row := []string{
			evt.ID,
			evt.Action,
			evt.Variant,
			strconv.FormatFloat(evt.OverallScore, 'f', 2, 64),
			evt.RequestID,
			evt.IP,
			evt.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			slog.Warn("audit export row failed", "err", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		slog.Warn("audit export flush failed", "err", err)
	}
}
