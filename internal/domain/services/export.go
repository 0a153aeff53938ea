package services

import "context"

// ExportService renders a trip's itinerary in exchange formats.
type ExportService interface {
	// ExportICS renders the itinerary as an iCalendar document, one event
	// per item that has a day date.
	ExportICS(ctx context.Context, tripID, userID string) ([]byte, error)
}
