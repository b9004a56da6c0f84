package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is a marketing event record. Owner holds the creator's email
// verbatim; the ownership guard compares it without normalization.
type Event struct {
	ID          int64
	PublicID    uuid.UUID
	Title       string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
	Owner       string
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
