package repositories

import (
	"context"

	"travelviet/internal/domain/models"
)

// ProfileRepository persists user profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	// Upsert creates the profile row on first write.
	Upsert(ctx context.Context, profile *models.Profile) error
}
