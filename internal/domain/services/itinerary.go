package services

import "context"

// SaveItineraryResult reports what an itinerary save extracted and wrote.
// Zero days saved is the documented "no structured itinerary found" outcome,
// not an error.
type SaveItineraryResult struct {
	DaysSaved  int `json:"days_saved"`
	ItemsSaved int `json:"items_saved"`
}

// ItineraryService turns assistant text into persisted trip days and items.
type ItineraryService interface {
	// SaveFromText parses content and, when days were found, replaces the
	// trip's existing itinerary atomically.
	SaveFromText(ctx context.Context, tripID, userID, content string) (*SaveItineraryResult, error)
}
