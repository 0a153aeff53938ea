package services

import (
	"context"

	"travelviet/internal/domain/models"
)

// UpdateProfileRequest represents a partial profile update.
type UpdateProfileRequest struct {
	FullName     *string  `json:"full_name,omitempty"`
	AvatarURL    *string  `json:"avatar_url,omitempty"`
	HomeCity     *string  `json:"home_city,omitempty"`
	TravelStyles []string `json:"travel_styles,omitempty"`
	BudgetMinVND *int64   `json:"budget_min_vnd,omitempty"`
	BudgetMaxVND *int64   `json:"budget_max_vnd,omitempty"`
}

// ProfileService defines business logic operations for user profiles.
type ProfileService interface {
	// GetProfile returns the user's profile, creating an empty row on
	// first access.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.Profile, error)
}
