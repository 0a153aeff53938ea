package services

import (
	"context"

	"travelviet/internal/domain/models"
)

// PublishRequest represents a request to publish a trip to the community
// feed.
type PublishRequest struct {
	Summary *string  `json:"summary,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// ShareResult carries the slug under which a trip is publicly reachable.
type ShareResult struct {
	ShareSlug string `json:"share_slug"`
}

// CommunityService covers public sharing: per-trip share links and the
// community feed of published itineraries.
type CommunityService interface {
	// ShareTrip generates (or returns the existing) public share slug.
	ShareTrip(ctx context.Context, tripID, userID string) (*ShareResult, error)
	// UnshareTrip revokes the trip's share slug.
	UnshareTrip(ctx context.Context, tripID, userID string) error
	// GetSharedTrip resolves a share slug to the full itinerary. Public.
	GetSharedTrip(ctx context.Context, slug string) (*models.TripDetail, error)

	PublishTrip(ctx context.Context, tripID, userID string, req *PublishRequest) (*models.PublicItinerary, error)
	UnpublishTrip(ctx context.Context, tripID, userID string) error
	// ListCommunity returns the newest published itineraries. Public.
	ListCommunity(ctx context.Context, limit int) ([]models.PublicItinerary, error)
}
