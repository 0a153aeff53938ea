package service

import (
	"context"
	"log/slog"

	"travelviet/internal/domain/models"
	"travelviet/internal/domain/repositories"
	"travelviet/internal/domain/services"
	"travelviet/internal/planner"
)

// itineraryService implements the ItineraryService interface.
type itineraryService struct {
	tripRepo      repositories.TripRepository
	itineraryRepo repositories.ItineraryRepository
	txManager     repositories.TransactionManager
	logger        *slog.Logger
}

// NewItineraryService creates a new itinerary service.
func NewItineraryService(
	tripRepo repositories.TripRepository,
	itineraryRepo repositories.ItineraryRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ItineraryService {
	return &itineraryService{
		tripRepo:      tripRepo,
		itineraryRepo: itineraryRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// SaveFromText parses assistant text and replaces the trip's itinerary with
// the extracted days and items. The delete and all inserts run in one
// transaction so a failed save never leaves a half-written itinerary. An
// empty parse is the documented "no structured itinerary found" outcome:
// nothing is deleted, nothing is written.
func (s *itineraryService) SaveFromText(ctx context.Context, tripID, userID, content string) (*services.SaveItineraryResult, error) {
	if _, err := s.tripRepo.GetTrip(ctx, tripID, userID); err != nil {
		return nil, err
	}

	parsed := planner.ParseItinerary(content)
	if len(parsed) == 0 {
		return &services.SaveItineraryResult{}, nil
	}

	result := &services.SaveItineraryResult{}
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.itineraryRepo.DeleteDaysByTrip(txCtx, tripID); err != nil {
			return err
		}

		for _, parsedDay := range parsed {
			day := &models.TripDay{
				TripID:   tripID,
				DayIndex: parsedDay.DayIndex,
				Date:     parsedDay.Date,
			}
			if err := s.itineraryRepo.CreateDay(txCtx, day); err != nil {
				return err
			}
			result.DaysSaved++

			for idx, parsedItem := range parsedDay.Items {
				item := &models.TripItem{
					TripDayID:    day.ID,
					ItemType:     models.ItemType(parsedItem.ItemType),
					Title:        parsedItem.Title,
					Description:  parsedItem.Description,
					LocationName: parsedItem.LocationName,
					StartTime:    parsedItem.StartTime,
					EndTime:      parsedItem.EndTime,
					SortOrder:    idx,
				}
				if parsedItem.EstimatedCostVND != nil {
					item.EstimatedCostVND = *parsedItem.EstimatedCostVND
				}
				if err := s.itineraryRepo.CreateItem(txCtx, item); err != nil {
					return err
				}
				result.ItemsSaved++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("itinerary saved from assistant text",
		"trip_id", tripID,
		"user_id", userID,
		"days", result.DaysSaved,
		"items", result.ItemsSaved,
	)
	return result, nil
}
