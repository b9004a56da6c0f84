package audit

import (
	"context"
	"testing"
	"time"
)

type stubTimelineRepo struct {
	rows       []TimelineRow
	lastLimit  int
	lastOffset int
	allCalls   int
}

func (s *stubTimelineRepo) DenialsWindow(_ context.Context, _ TimelineFilters, limit, offset int) ([]TimelineRow, error) {
	s.lastLimit = limit
	s.lastOffset = offset
	if limit < len(s.rows) {
		return s.rows[:limit], nil
	}
	return s.rows, nil
}

func (s *stubTimelineRepo) DenialsAll(_ context.Context, _ TimelineFilters) ([]TimelineRow, error) {
	s.allCalls++
	return s.rows, nil
}

func denialRow(ts string, userID string) TimelineRow {
	at, _ := time.Parse(time.RFC3339, ts)
	return TimelineRow{
		At:       at,
		UserID:   userID,
		Email:    userID + "@co.com",
		Kind:     "forbidden",
		Required: []string{"campaign.delete"},
		Roles:    []string{"viewer"},
	}
}

func TestServiceTimelinePaging(t *testing.T) {
	repo := &stubTimelineRepo{rows: []TimelineRow{
		denialRow("2026-08-10T10:00:00Z", "u1"),
		denialRow("2026-08-09T09:00:00Z", "u2"),
		denialRow("2026-08-08T08:00:00Z", "u3"),
	}}
	svc := NewService(repo)

	result, err := svc.Timeline(context.Background(), TimelineFilters{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if !result.Paging.HasNext {
		t.Fatalf("expected hasNext true")
	}
	if result.Paging.NextPage != 2 {
		t.Fatalf("expected nextPage 2, got %d", result.Paging.NextPage)
	}
	if repo.lastLimit != 3 {
		t.Fatalf("expected limit 3, got %d", repo.lastLimit)
	}
	if repo.lastOffset != 0 {
		t.Fatalf("expected offset 0, got %d", repo.lastOffset)
	}
}

func TestServiceTimelineSecondPageOffset(t *testing.T) {
	repo := &stubTimelineRepo{rows: []TimelineRow{denialRow("2026-08-08T08:00:00Z", "u3")}}
	svc := NewService(repo)

	result, err := svc.Timeline(context.Background(), TimelineFilters{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if repo.lastOffset != 2 {
		t.Fatalf("expected offset 2, got %d", repo.lastOffset)
	}
	if result.Paging.HasNext {
		t.Fatalf("expected hasNext false")
	}
	if result.Paging.PrevPage != 1 {
		t.Fatalf("expected prevPage 1, got %d", result.Paging.PrevPage)
	}
}

func TestServiceTimelineClampsPageSize(t *testing.T) {
	repo := &stubTimelineRepo{}
	svc := NewService(repo)

	if _, err := svc.Timeline(context.Background(), TimelineFilters{PageSize: 500}); err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if repo.lastLimit != 51 {
		t.Fatalf("expected limit 51, got %d", repo.lastLimit)
	}
}

func TestServiceExportReturnsAllRows(t *testing.T) {
	repo := &stubTimelineRepo{rows: []TimelineRow{
		denialRow("2026-08-10T10:00:00Z", "u1"),
		denialRow("2026-08-09T09:00:00Z", "u2"),
	}}
	svc := NewService(repo)

	rows, err := svc.Export(context.Background(), TimelineFilters{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if repo.allCalls != 1 {
		t.Fatalf("expected 1 repo call, got %d", repo.allCalls)
	}
}

func TestWriteCSV(t *testing.T) {
	rows := []TimelineRow{denialRow("2026-08-10T10:00:00Z", "u1")}
	out, err := WriteCSV(rows)
	if err != nil {
		t.Fatalf("write csv: %v", err)
	}
	got := string(out)
	want := "occurred_at,user_id,email,kind,required,roles,resource_id\n" +
		"2026-08-10T10:00:00Z,u1,u1@co.com,forbidden,campaign.delete,viewer,\n"
	if got != want {
		t.Fatalf("unexpected csv:\n%s", got)
	}
}
