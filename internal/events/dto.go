package events

import "time"

// CreateEventRequest is the payload for creating an event.
type CreateEventRequest struct {
	Title    string    `json:"title" validate:"required,max=200"`
	Location string    `json:"location" validate:"max=200"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
}

// UpdateEventRequest is the payload for updating an event.
type UpdateEventRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Location    string    `json:"location" validate:"max=200"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	IsPublished bool      `json:"is_published"`
}

// EventResponse is the JSON shape returned to clients.
type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Owner       string    `json:"owner"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toResponse(e Event) EventResponse {
	return EventResponse{
		ID:          e.PublicID.String(),
		Title:       e.Title,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		Owner:       e.Owner,
		IsPublished: e.IsPublished,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
