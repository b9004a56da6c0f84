package campaigns

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atrium-portal/atrium/internal/authz"
)

// ErrNotFound indicates that the requested campaign does not exist.
var ErrNotFound = errors.New("campaigns: not found")

// Repository is the persistence contract for campaigns.
type Repository interface {
	Get(ctx context.Context, publicID string) (*Campaign, error)
	List(ctx context.Context, limit, offset int) ([]Campaign, error)
	Create(ctx context.Context, campaign Campaign) (*Campaign, error)
	Update(ctx context.Context, publicID string, campaign Campaign) (*Campaign, error)
	UpdateBudget(ctx context.Context, publicID string, budget float64) (*Campaign, error)
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

const campaignColumns = `id, public_id, name, budget, status, owner_email, created_at, updated_at`

func (r *repository) Get(ctx context.Context, publicID string) (*Campaign, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE public_id = $1`, publicID)
	return scanCampaign(row)
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Campaign, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *campaign)
	}
	return campaigns, rows.Err()
}

func (r *repository) Create(ctx context.Context, campaign Campaign) (*Campaign, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO campaigns (public_id, name, budget, status, owner_email)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+campaignColumns,
		campaign.PublicID, campaign.Name, campaign.Budget, campaign.Status, campaign.Owner)
	return scanCampaign(row)
}

func (r *repository) Update(ctx context.Context, publicID string, campaign Campaign) (*Campaign, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE campaigns SET name = $2, status = $3, updated_at = NOW()
		 WHERE public_id = $1
		 RETURNING `+campaignColumns,
		publicID, campaign.Name, campaign.Status)
	return scanCampaign(row)
}

func (r *repository) UpdateBudget(ctx context.Context, publicID string, budget float64) (*Campaign, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE campaigns SET budget = $2, updated_at = NOW()
		 WHERE public_id = $1
		 RETURNING `+campaignColumns,
		publicID, budget)
	return scanCampaign(row)
}

func (r *repository) Delete(ctx context.Context, publicID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE public_id = $1`, publicID)
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
		`SELECT owner_email FROM campaigns WHERE public_id = $1`, publicID).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", authz.ErrResourceNotFound
		}
		return "", err
	}
	return owner, nil
}

func scanCampaign(row pgx.Row) (*Campaign, error) {
	var c Campaign
	err := row.Scan(&c.ID, &c.PublicID, &c.Name, &c.Budget, &c.Status, &c.Owner, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
