package model

import "time"

// Project is a completed or ongoing build shown in the portfolio.
type Project struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Category    string     `json:"category"`
	CoverImage  string     `json:"coverImage"`
	Featured    bool       `json:"featured"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	FeaturedOnly bool
	Category     string
}
