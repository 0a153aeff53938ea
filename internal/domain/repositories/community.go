package repositories

import (
	"context"

	"travelviet/internal/domain/models"
)

// CommunityRepository persists published itineraries.
type CommunityRepository interface {
	Publish(ctx context.Context, entry *models.PublicItinerary) error
	Unpublish(ctx context.Context, tripID, ownerID string) error
	GetByTrip(ctx context.Context, tripID string) (*models.PublicItinerary, error)
	// ListPublished returns the newest published itineraries, capped at limit.
	ListPublished(ctx context.Context, limit int) ([]models.PublicItinerary, error)
}
