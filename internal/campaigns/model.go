package campaigns

import (
	"time"

	"github.com/google/uuid"
)

// Campaign is a marketing campaign record.
type Campaign struct {
	ID        int64
	PublicID  uuid.UUID
	Name      string
	Budget    float64
	Status    string
	Owner     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Campaign statuses.
const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
)
