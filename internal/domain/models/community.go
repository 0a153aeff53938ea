package models

import (
	"time"
)

// PublicItinerary is a trip published to the community feed.
type PublicItinerary struct {
	ID          string    `json:"id"`
	TripID      string    `json:"trip_id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Summary     *string   `json:"summary,omitempty"`
	Tags        []string  `json:"tags"`
	LikesCount  int       `json:"likes_count"`
	SavesCount  int       `json:"saves_count"`
	PublishedAt time.Time `json:"published_at"`
}
