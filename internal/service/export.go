package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"travelviet/internal/domain/services"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

// exportService implements the ExportService interface.
type exportService struct {
	tripService services.TripService
	logger      *slog.Logger
}

// NewExportService creates a new export service.
func NewExportService(tripService services.TripService, logger *slog.Logger) services.ExportService {
	return &exportService{
		tripService: tripService,
		logger:      logger,
	}
}

// ExportICS renders the trip itinerary as an iCalendar document. Days
// without a date are skipped; items without a start time become all-day
// events on their day's date.
func (s *exportService) ExportICS(ctx context.Context, tripID, userID string) ([]byte, error) {
	detail, err := s.tripService.GetTripDetail(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//TravelViet//Trip Planner//VI")
	cal.SetXWRCalName(detail.Title)

	now := time.Now().UTC()
	for _, day := range detail.Days {
		if day.Date == nil {
			continue
		}
		date, err := time.Parse("2006-01-02", *day.Date)
		if err != nil {
			continue
		}

		for _, item := range day.Items {
			event := cal.AddEvent(fmt.Sprintf("%s@travelviet", uuid.NewString()))
			event.SetCreatedTime(now)
			event.SetDtStampTime(now)
			event.SetSummary(item.Title)
			if item.Description != nil {
				event.SetDescription(*item.Description)
			}
			if item.LocationName != nil {
				event.SetLocation(*item.LocationName)
			}

			start, ok := combineDateTime(date, item.StartTime)
			if !ok {
				event.SetAllDayStartAt(date)
				event.SetAllDayEndAt(date.AddDate(0, 0, 1))
				continue
			}
			event.SetStartAt(start)
			if end, ok := combineDateTime(date, item.EndTime); ok && end.After(start) {
				event.SetEndAt(end)
			} else {
				event.SetEndAt(start.Add(time.Hour))
			}
		}
	}

	s.logger.Debug("itinerary exported", "trip_id", tripID, "days", len(detail.Days))
	return []byte(cal.Serialize()), nil
}

// combineDateTime merges a day date with an HH:MM wall time.
func combineDateTime(date time.Time, hhmm *string) (time.Time, bool) {
	if hhmm == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("15:04", *hhmm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), true
}
