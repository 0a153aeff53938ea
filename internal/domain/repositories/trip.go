package repositories

import (
	"context"

	"travelviet/internal/domain/models"
)

// TripRepository persists trips. All reads are scoped by owner unless a
// method says otherwise; share-slug lookup is the public exception.
type TripRepository interface {
	CreateTrip(ctx context.Context, trip *models.Trip) error
	GetTrip(ctx context.Context, tripID, ownerID string) (*models.Trip, error)
	GetTripByShareSlug(ctx context.Context, slug string) (*models.Trip, error)
	ListTrips(ctx context.Context, ownerID string) ([]models.Trip, error)
	UpdateTrip(ctx context.Context, trip *models.Trip) error
	DeleteTrip(ctx context.Context, tripID, ownerID string) error
	// SetShareSlug sets or clears (nil) the trip's public share slug.
	SetShareSlug(ctx context.Context, tripID, ownerID string, slug *string) error
}

// ItineraryRepository persists trip days and items.
type ItineraryRepository interface {
	CreateDay(ctx context.Context, day *models.TripDay) error
	// GetDay returns one day, verifying ownership through the parent trip.
	GetDay(ctx context.Context, dayID, ownerID string) (*models.TripDay, error)
	ListDays(ctx context.Context, tripID string) ([]models.TripDay, error)
	// DeleteDaysByTrip removes all days for a trip; items cascade.
	DeleteDaysByTrip(ctx context.Context, tripID string) error
	DeleteDay(ctx context.Context, dayID, ownerID string) error

	CreateItem(ctx context.Context, item *models.TripItem) error
	// GetItem returns one item, verifying ownership through the parent trip.
	GetItem(ctx context.Context, itemID, ownerID string) (*models.TripItem, error)
	ListItemsByTrip(ctx context.Context, tripID string) ([]models.TripItem, error)
	UpdateItem(ctx context.Context, item *models.TripItem, ownerID string) error
	DeleteItem(ctx context.Context, itemID, ownerID string) error
}
