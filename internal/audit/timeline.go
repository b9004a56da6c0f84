package audit

import "time"

// TimelineFilters narrows the denial timeline by window, caller, and kind.
type TimelineFilters struct {
	From     time.Time
	To       time.Time
	UserID   string
	Kind     string
	Page     int
	PageSize int
}

// TimelineRow is one denial as surfaced to reviewers.
type TimelineRow struct {
	At         time.Time `json:"at"`
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	Kind       string    `json:"kind"`
	Required   []string  `json:"required"`
	Roles      []string  `json:"roles"`
	ResourceID string    `json:"resourceId,omitempty"`
}

// PagingInfo carries pagination metadata alongside a timeline page.
type PagingInfo struct {
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
	HasNext  bool `json:"hasNext"`
	NextPage int  `json:"nextPage,omitempty"`
	PrevPage int  `json:"prevPage,omitempty"`
}

// Result bundles one page of timeline rows with its paging info.
type Result struct {
	Rows   []TimelineRow `json:"rows"`
	Paging PagingInfo    `json:"paging"`
}
