package models

import (
	"time"
)

// TripMode is the travel-party mode of a trip.
type TripMode string

const (
	ModeSolo    TripMode = "solo"
	ModeCouple  TripMode = "couple"
	ModeFamily  TripMode = "family"
	ModeFriends TripMode = "friends"
)

// ValidTripMode reports whether m is one of the known trip modes.
func ValidTripMode(m TripMode) bool {
	switch m {
	case ModeSolo, ModeCouple, ModeFamily, ModeFriends:
		return true
	}
	return false
}

// TripStatus is the lifecycle status of a trip.
type TripStatus string

const (
	StatusDraft     TripStatus = "draft"
	StatusPlanned   TripStatus = "planned"
	StatusOngoing   TripStatus = "ongoing"
	StatusCompleted TripStatus = "completed"
)

// ItemType classifies an itinerary item.
type ItemType string

const (
	ItemFood      ItemType = "food"
	ItemStay      ItemType = "stay"
	ItemTransport ItemType = "transport"
	ItemVisit     ItemType = "visit"
)

// Trip is a user-owned travel plan.
type Trip struct {
	ID                   string     `json:"id"`
	OwnerID              string     `json:"owner_id"`
	Title                string     `json:"title"`
	DestinationProvinces []string   `json:"destination_provinces"`
	StartDate            *string    `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate              *string    `json:"end_date,omitempty"`   // YYYY-MM-DD
	TravelersCount       int        `json:"travelers_count"`
	Mode                 TripMode   `json:"mode"`
	TotalBudgetVND       int64      `json:"total_budget_vnd"`
	Status               TripStatus `json:"status"`
	ShareSlug            *string    `json:"share_slug,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// TripDay is one day of a trip's itinerary.
type TripDay struct {
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	DayIndex  int       `json:"day_index"`
	Date      *string   `json:"date,omitempty"` // YYYY-MM-DD
	Summary   *string   `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TripItem is a single activity within a trip day.
type TripItem struct {
	ID               string    `json:"id"`
	TripDayID        string    `json:"trip_day_id"`
	ItemType         ItemType  `json:"item_type"`
	Title            string    `json:"title"`
	Description      *string   `json:"description,omitempty"`
	LocationName     *string   `json:"location_name,omitempty"`
	Lat              *float64  `json:"lat,omitempty"`
	Lng              *float64  `json:"lng,omitempty"`
	StartTime        *string   `json:"start_time,omitempty"` // HH:MM
	EndTime          *string   `json:"end_time,omitempty"`   // HH:MM
	EstimatedCostVND int64     `json:"estimated_cost_vnd"`
	IsHiddenGem      bool      `json:"is_hidden_gem"`
	SortOrder        int       `json:"sort_order"`
	CreatedAt        time.Time `json:"created_at"`
}

// TripDayWithItems bundles a day with its ordered items.
type TripDayWithItems struct {
	TripDay
	Items []TripItem `json:"items"`
}

// TripDetail is a trip with its full itinerary plus derived totals.
type TripDetail struct {
	Trip
	Days             []TripDayWithItems `json:"days"`
	EstimatedCostVND int64              `json:"estimated_cost_vnd"`
}
