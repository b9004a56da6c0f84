// Package assignments reads persisted role assignments. The administrative
// write path that creates and revokes assignments lives outside this
// service; the authorization core only consumes the read side.
package assignments

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atrium-portal/atrium/internal/authz"
)

type dbtx interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository loads role assignments from PostgreSQL. It implements
// authz.AssignmentStore.
type Repository struct {
	db dbtx
}

// NewRepository builds a Repository over the pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

const findActiveQuery = `
	SELECT role_name, is_active
	FROM role_assignments
	WHERE user_id = $1 AND is_active
	ORDER BY assigned_at
`

// FindActiveByUser returns the active assignments for an identity. The read
// is idempotent, so one retry is attempted on transient failure; both
// attempts stay bounded by the request context.
func (r *Repository) FindActiveByUser(ctx context.Context, userID string) ([]authz.Assignment, error) {
	assignments, err := r.findActive(ctx, userID)
	if err != nil && ctx.Err() == nil {
		assignments, err = r.findActive(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("assignments: find active for %s: %w", userID, err)
	}
	return assignments, nil
}

func (r *Repository) findActive(ctx context.Context, userID string) ([]authz.Assignment, error) {
	rows, err := r.db.Query(ctx, findActiveQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []authz.Assignment
	for rows.Next() {
		var roleName string
		var isActive bool
		if err := rows.Scan(&roleName, &isActive); err != nil {
			return nil, err
		}
		assignments = append(assignments, authz.Assignment{
			Role:       authz.Role(roleName),
			Provenance: authz.ProvenanceExplicit,
			Active:     isActive,
		})
	}
	return assignments, rows.Err()
}
