package events

import (
	"context"

	"github.com/google/uuid"
)

// Service orchestrates event operations.
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

// Get fetches one event by public id.
func (s *Service) Get(ctx context.Context, publicID string) (*Event, error) {
	return s.repo.Get(ctx, publicID)
}

// List returns events with basic pagination.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// Create stores a new event owned by the acting identity. The owner field
// is stamped server-side from the principal, never from the payload.
func (s *Service) Create(ctx context.Context, ownerEmail string, req CreateEventRequest) (*Event, error) {
	return s.repo.Create(ctx, Event{
		PublicID: uuid.New(),
		Title:    req.Title,
		Location: req.Location,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Owner:    ownerEmail,
	})
}

// Update modifies an existing event. Ownership is enforced by the gate in
// front of the handler, not here.
func (s *Service) Update(ctx context.Context, publicID string, req UpdateEventRequest) (*Event, error) {
	return s.repo.Update(ctx, publicID, Event{
		Title:       req.Title,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		IsPublished: req.IsPublished,
	})
}

// Delete removes an event.
func (s *Service) Delete(ctx context.Context, publicID string) error {
	return s.repo.Delete(ctx, publicID)
}
