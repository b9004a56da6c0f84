package audit

import (
	"context"
	"fmt"
)

// Repository provides read access to recorded denials.
type Repository interface {
	DenialsWindow(ctx context.Context, filters TimelineFilters, limit, offset int) ([]TimelineRow, error)
	DenialsAll(ctx context.Context, filters TimelineFilters) ([]TimelineRow, error)
}

// Service coordinates denial timeline reads.
type Service struct {
	repo Repository
}

// NewService builds a timeline service over the repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Timeline returns one page of denials. It fetches one extra row to decide
// whether a next page exists.
func (s *Service) Timeline(ctx context.Context, filters TimelineFilters) (Result, error) {
	if s.repo == nil {
		return Result{}, fmt.Errorf("audit: repository not configured")
	}
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 50 {
		pageSize = 50
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	rows, err := s.repo.DenialsWindow(ctx, filters, pageSize+1, offset)
	if err != nil {
		return Result{}, err
	}
	hasNext := len(rows) > pageSize
	if hasNext {
		rows = rows[:pageSize]
	}
	paging := PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext}
	if page > 1 {
		paging.PrevPage = page - 1
	}
	if hasNext {
		paging.NextPage = page + 1
	}
	return Result{Rows: rows, Paging: paging}, nil
}

// Export returns every denial matching the filters, unpaged.
func (s *Service) Export(ctx context.Context, filters TimelineFilters) ([]TimelineRow, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("audit: repository not configured")
	}
	return s.repo.DenialsAll(ctx, filters)
}
