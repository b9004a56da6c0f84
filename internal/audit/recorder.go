// Package audit persists authorization decisions for later review.
package audit

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one recorded authorization denial.
type Entry struct {
	UserID     string
	Email      string
	Kind       string
	Required   []string
	Roles      []string
	ResourceID string
	At         time.Time
}

// Recorder writes entries into authz_audit.
type Recorder struct {
	pool *pgxpool.Pool
}

// NewRecorder returns a new Recorder.
func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool}
}

// Record persists the entry.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	if r == nil || r.pool == nil {
		return errors.New("audit recorder not initialised")
	}
	if e.Kind == "" {
		return errors.New("audit entry requires kind")
	}
	occurredAt := e.At
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO authz_audit (user_id, email, kind, required, roles, resource_id, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.UserID, e.Email, e.Kind, e.Required, e.Roles, e.ResourceID, occurredAt)
	return err
}
