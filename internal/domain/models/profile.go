package models

import (
	"time"
)

// Profile holds a user's public profile and travel preferences.
// Rows are keyed by the Supabase auth user id.
type Profile struct {
	ID           string    `json:"id"`
	FullName     *string   `json:"full_name,omitempty"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	HomeCity     *string   `json:"home_city,omitempty"`
	TravelStyles []string  `json:"travel_styles"`
	BudgetMinVND int64     `json:"budget_min_vnd"`
	BudgetMaxVND int64     `json:"budget_max_vnd"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
