package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ActionReportGenerated = "report.generated"

// Event is one row of the report trail. Assessment inputs and the employee
// profile, file name included, are never stored.
type Event struct {
	ID           string    `json:"id"`
	Action       string    `json:"action"`
	Variant      string    `json:"variant"`
	OverallScore float64   `json:"overallScore"`
	RequestID    string    `json:"requestId"`
	IP           string    `json:"ip"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Filter struct {
	Action  string
	Variant string
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, evt Event) error {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.Action == "" {
		evt.Action = ActionReportGenerated
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO report_events (id, action, variant, overall_score, request_id, ip)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, evt.ID, evt.Action, evt.Variant, evt.OverallScore, evt.RequestID, evt.IP)
	return err
}

func (s *Service) Prune(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM report_events WHERE created_at < $1", before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Service) Count(ctx context.Context, filter Filter) (int, error) {
	query, args := buildBaseQuery("SELECT COUNT(1)", filter)
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Event, error) {
	query, args := buildBaseQuery("SELECT id::text, action, variant, overall_score::float8, request_id, ip, created_at", filter)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		if err := rows.Scan(&evt.ID, &evt.Action, &evt.Variant, &evt.OverallScore, &evt.RequestID, &evt.IP, &evt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}

func buildBaseQuery(prefix string, filter Filter) (string, []any) {
	query := prefix + " FROM report_events WHERE 1=1"
	var args []any
	if filter.Action != "" {
		args = append(args, filter.Action)
		query += fmt.Sprintf(" AND action = $%d", len(args))
	}
	if filter.Variant != "" {
		args = append(args, filter.Variant)
		query += fmt.Sprintf(" AND variant = $%d", len(args))
	}
	return query, args
}
