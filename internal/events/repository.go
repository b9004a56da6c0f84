package events

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atrium-portal/atrium/internal/authz"
)

// ErrNotFound indicates that the requested event does not exist.
var ErrNotFound = errors.New("events: not found")

// Repository is the persistence contract for events.
type Repository interface {
	Get(ctx context.Context, publicID string) (*Event, error)
	List(ctx context.Context, limit, offset int) ([]Event, error)
	Create(ctx context.Context, event Event) (*Event, error)
	Update(ctx context.Context, publicID string, event Event) (*Event, error)
	Delete(ctx context.Context, publicID string) error
	OwnerEmail(ctx context.Context, publicID string) (string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a Repository over the pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const eventColumns = `id, public_id, title, location, starts_at, ends_at, owner_email, is_published, created_at, updated_at`

func (r *repository) Get(ctx context.Context, publicID string) (*Event, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE public_id = $1`, publicID)
	return scanEvent(row)
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Event, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY starts_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

func (r *repository) Create(ctx context.Context, event Event) (*Event, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO events (public_id, title, location, starts_at, ends_at, owner_email, is_published)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+eventColumns,
		event.PublicID, event.Title, event.Location, event.StartsAt, event.EndsAt, event.Owner, event.IsPublished)
	return scanEvent(row)
}

func (r *repository) Update(ctx context.Context, publicID string, event Event) (*Event, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE events
		 SET title = $2, location = $3, starts_at = $4, ends_at = $5, is_published = $6, updated_at = NOW()
		 WHERE public_id = $1
		 RETURNING `+eventColumns,
		publicID, event.Title, event.Location, event.StartsAt, event.EndsAt, event.IsPublished)
	return scanEvent(row)
}

func (r *repository) Delete(ctx context.Context, publicID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE public_id = $1`, publicID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// OwnerEmail implements authz.OwnerLookup for the ownership guard.
func (r *repository) OwnerEmail(ctx context.Context, publicID string) (string, error) {
	var owner string
	err := r.pool.QueryRow(ctx,
		`SELECT owner_email FROM events WHERE public_id = $1`, publicID).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", authz.ErrResourceNotFound
		}
		return "", err
	}
	return owner, nil
}

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.PublicID, &e.Title, &e.Location, &e.StartsAt, &e.EndsAt, &e.Owner, &e.IsPublished, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}
