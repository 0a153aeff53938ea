package services

import (
	"context"

	"travelviet/internal/domain/models"
)

// CreateTripRequest represents a request to create a trip.
type CreateTripRequest struct {
	OwnerID              string            `json:"-"`
	Title                string            `json:"title"`
	DestinationProvinces []string          `json:"destination_provinces"`
	StartDate            *string           `json:"start_date,omitempty"`
	EndDate              *string           `json:"end_date,omitempty"`
	TravelersCount       int               `json:"travelers_count"`
	Mode                 models.TripMode   `json:"mode"`
	TotalBudgetVND       int64             `json:"total_budget_vnd"`
	Status               models.TripStatus `json:"status,omitempty"`
}

// UpdateTripRequest represents a partial trip update. Nil fields keep their
// current value.
type UpdateTripRequest struct {
	Title                *string            `json:"title,omitempty"`
	DestinationProvinces []string           `json:"destination_provinces,omitempty"`
	StartDate            *string            `json:"start_date,omitempty"`
	EndDate              *string            `json:"end_date,omitempty"`
	TravelersCount       *int               `json:"travelers_count,omitempty"`
	Mode                 *models.TripMode   `json:"mode,omitempty"`
	TotalBudgetVND       *int64             `json:"total_budget_vnd,omitempty"`
	Status               *models.TripStatus `json:"status,omitempty"`
}

// AddDayRequest represents a request to append a day to a trip.
type AddDayRequest struct {
	DayIndex int     `json:"day_index"`
	Date     *string `json:"date,omitempty"`
	Summary  *string `json:"summary,omitempty"`
}

// AddItemRequest represents a request to add an item to a day.
type AddItemRequest struct {
	ItemType         models.ItemType `json:"item_type"`
	Title            string          `json:"title"`
	Description      *string         `json:"description,omitempty"`
	LocationName     *string         `json:"location_name,omitempty"`
	Lat              *float64        `json:"lat,omitempty"`
	Lng              *float64        `json:"lng,omitempty"`
	StartTime        *string         `json:"start_time,omitempty"`
	EndTime          *string         `json:"end_time,omitempty"`
	EstimatedCostVND int64           `json:"estimated_cost_vnd"`
	IsHiddenGem      bool            `json:"is_hidden_gem"`
	SortOrder        int             `json:"sort_order"`
}

// UpdateItemRequest represents a partial item update.
type UpdateItemRequest struct {
	ItemType         *models.ItemType `json:"item_type,omitempty"`
	Title            *string          `json:"title,omitempty"`
	Description      *string          `json:"description,omitempty"`
	LocationName     *string          `json:"location_name,omitempty"`
	Lat              *float64         `json:"lat,omitempty"`
	Lng              *float64         `json:"lng,omitempty"`
	StartTime        *string          `json:"start_time,omitempty"`
	EndTime          *string          `json:"end_time,omitempty"`
	EstimatedCostVND *int64           `json:"estimated_cost_vnd,omitempty"`
	IsHiddenGem      *bool            `json:"is_hidden_gem,omitempty"`
	SortOrder        *int             `json:"sort_order,omitempty"`
}

// TripService defines business logic operations for trips and their
// itinerary days/items.
type TripService interface {
	CreateTrip(ctx context.Context, req *CreateTripRequest) (*models.Trip, error)

	// GetTripDetail returns the trip with its days, items and derived
	// cost total.
	GetTripDetail(ctx context.Context, tripID, userID string) (*models.TripDetail, error)

	ListTrips(ctx context.Context, userID string) ([]models.Trip, error)
	UpdateTrip(ctx context.Context, tripID, userID string, req *UpdateTripRequest) (*models.Trip, error)
	DeleteTrip(ctx context.Context, tripID, userID string) error

	AddDay(ctx context.Context, tripID, userID string, req *AddDayRequest) (*models.TripDay, error)
	DeleteDay(ctx context.Context, dayID, userID string) error
	AddItem(ctx context.Context, dayID, userID string, req *AddItemRequest) (*models.TripItem, error)
	UpdateItem(ctx context.Context, itemID, userID string, req *UpdateItemRequest) (*models.TripItem, error)
	DeleteItem(ctx context.Context, itemID, userID string) error
}
