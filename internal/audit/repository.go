package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const timelineColumns = "occurred_at, user_id, email, kind, required, roles, resource_id"

// PGRepository reads denial rows from authz_audit.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository returns a repository over the pool.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// DenialsWindow returns one page of denials, newest first.
func (r *PGRepository) DenialsWindow(ctx context.Context, filters TimelineFilters, limit, offset int) ([]TimelineRow, error) {
	where, args := buildFilter(filters)
	query := fmt.Sprintf(
		"SELECT %s FROM authz_audit%s ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d",
		timelineColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.query(ctx, query, args)
}

// DenialsAll returns every denial matching the filters, newest first.
func (r *PGRepository) DenialsAll(ctx context.Context, filters TimelineFilters) ([]TimelineRow, error) {
	where, args := buildFilter(filters)
	query := fmt.Sprintf(
		"SELECT %s FROM authz_audit%s ORDER BY occurred_at DESC",
		timelineColumns, where)
	return r.query(ctx, query, args)
}

func (r *PGRepository) query(ctx context.Context, query string, args []any) ([]TimelineRow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit timeline: %w", err)
	}
	defer rows.Close()

	var out []TimelineRow
	for rows.Next() {
		row, err := scanTimelineRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func buildFilter(filters TimelineFilters) (string, []any) {
	var clauses []string
	var args []any
	next := func() int { return len(args) + 1 }

	if !filters.From.IsZero() {
		clauses = append(clauses, fmt.Sprintf("occurred_at >= $%d", next()))
		args = append(args, filters.From)
	}
	if !filters.To.IsZero() {
		clauses = append(clauses, fmt.Sprintf("occurred_at < $%d", next()))
		args = append(args, filters.To)
	}
	if filters.UserID != "" {
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", next()))
		args = append(args, filters.UserID)
	}
	if filters.Kind != "" {
		clauses = append(clauses, fmt.Sprintf("kind = $%d", next()))
		args = append(args, filters.Kind)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanTimelineRow(rows pgx.Rows) (TimelineRow, error) {
	var row TimelineRow
	if err := rows.Scan(&row.At, &row.UserID, &row.Email, &row.Kind, &row.Required, &row.Roles, &row.ResourceID); err != nil {
		return TimelineRow{}, fmt.Errorf("scan audit row: %w", err)
	}
	return row, nil
}
