package campaigns

import (
	"context"

	"github.com/google/uuid"
)

// Service orchestrates campaign operations.
type Service struct {
	repo Repository
}

// NewService builds a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Repo exposes the repository for ownership lookups.
func (s *Service) Repo() Repository {
	return s.repo
}

// Get fetches one campaign by public id.
func (s *Service) Get(ctx context.Context, publicID string) (*Campaign, error) {
	return s.repo.Get(ctx, publicID)
}

// List returns campaigns with basic pagination.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Campaign, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// Create stores a new draft campaign owned by the acting identity.
func (s *Service) Create(ctx context.Context, ownerEmail string, req CreateCampaignRequest) (*Campaign, error) {
	return s.repo.Create(ctx, Campaign{
		PublicID: uuid.New(),
		Name:     req.Name,
		Budget:   req.Budget,
		Status:   StatusDraft,
		Owner:    ownerEmail,
	})
}

// Update modifies name and status.
func (s *Service) Update(ctx context.Context, publicID string, req UpdateCampaignRequest) (*Campaign, error) {
	return s.repo.Update(ctx, publicID, Campaign{Name: req.Name, Status: req.Status})
}

// UpdateBudget changes the campaign budget.
func (s *Service) UpdateBudget(ctx context.Context, publicID string, budget float64) (*Campaign, error) {
	return s.repo.UpdateBudget(ctx, publicID, budget)
}

// Delete removes a campaign.
func (s *Service) Delete(ctx context.Context, publicID string) error {
	return s.repo.Delete(ctx, publicID)
}
