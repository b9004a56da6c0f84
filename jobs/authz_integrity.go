package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atrium-portal/atrium/internal/authz"
)

// IntegrityScanJob reports persisted role assignments whose role name is not
// in the registry. Those rows silently grant nothing (lookups fail closed),
// which usually means a typo in an administrative write or a role retired
// without cleaning up its assignments.
type IntegrityScanJob struct {
	pool     *pgxpool.Pool
	registry *authz.Registry
	logger   *slog.Logger
}

// NewIntegrityScanJob constructs the job.
func NewIntegrityScanJob(pool *pgxpool.Pool, registry *authz.Registry, logger *slog.Logger) *IntegrityScanJob {
	return &IntegrityScanJob{pool: pool, registry: registry, logger: logger}
}

// Handle processes TaskAuthzIntegrityScan tasks.
func (j *IntegrityScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload IntegrityScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	rows, err := j.pool.Query(ctx,
		`SELECT role_name, COUNT(*) FROM role_assignments WHERE is_active GROUP BY role_name`)
	if err != nil {
		return err
	}
	defer rows.Close()

	unknown := make(map[string]int64)
	for rows.Next() {
		var roleName string
		var count int64
		if err := rows.Scan(&roleName, &count); err != nil {
			return err
		}
		if !j.registry.Known(authz.Role(roleName)) {
			unknown[roleName] = count
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for roleName, count := range unknown {
		j.logger.Warn("active assignments reference unknown role",
			slog.String("role", roleName),
			slog.Int64("assignments", count))
		if payload.DeactivateUnknown {
			if _, err := j.pool.Exec(ctx,
				`UPDATE role_assignments SET is_active = FALSE WHERE role_name = $1`, roleName); err != nil {
				return err
			}
		}
	}
	j.logger.Info("authz integrity scan finished",
		slog.Int("unknown_roles", len(unknown)),
		slog.Bool("deactivated", payload.DeactivateUnknown))
	return nil
}
