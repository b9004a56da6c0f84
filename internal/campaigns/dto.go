package campaigns

import "time"

// CreateCampaignRequest is the payload for creating a campaign.
type CreateCampaignRequest struct {
	Name   string  `json:"name" validate:"required,max=200"`
	Budget float64 `json:"budget" validate:"gte=0"`
}

// UpdateCampaignRequest is the payload for updating campaign details.
type UpdateCampaignRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Status string `json:"status" validate:"required,oneof=draft active archived"`
}

// UpdateBudgetRequest is the payload for the budget endpoint.
type UpdateBudgetRequest struct {
	Budget float64 `json:"budget" validate:"gte=0"`
}

// CampaignResponse is the JSON shape returned to clients.
type CampaignResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Budget    float64   `json:"budget"`
	Status    string    `json:"status"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(c Campaign) CampaignResponse {
	return CampaignResponse{
		ID:        c.PublicID.String(),
		Name:      c.Name,
		Budget:    c.Budget,
		Status:    c.Status,
		Owner:     c.Owner,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
