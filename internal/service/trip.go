package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"travelviet/internal/config"
	"travelviet/internal/domain"
	"travelviet/internal/domain/models"
	"travelviet/internal/domain/repositories"
	"travelviet/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// tripService implements the TripService interface.
type tripService struct {
	tripRepo      repositories.TripRepository
	itineraryRepo repositories.ItineraryRepository
	logger        *slog.Logger
}

// NewTripService creates a new trip service.
func NewTripService(
	tripRepo repositories.TripRepository,
	itineraryRepo repositories.ItineraryRepository,
	logger *slog.Logger,
) services.TripService {
	return &tripService{
		tripRepo:      tripRepo,
		itineraryRepo: itineraryRepo,
		logger:        logger,
	}
}

// CreateTrip creates a new trip owned by the requesting user.
func (s *tripService) CreateTrip(ctx context.Context, req *services.CreateTripRequest) (*models.Trip, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}
	mode := req.Mode
	if mode == "" {
		mode = models.ModeSolo
	}
	travelers := req.TravelersCount
	if travelers == 0 {
		travelers = 1
	}

	trip := &models.Trip{
		OwnerID:              req.OwnerID,
		Title:                strings.TrimSpace(req.Title),
		DestinationProvinces: req.DestinationProvinces,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		TravelersCount:       travelers,
		Mode:                 mode,
		TotalBudgetVND:       req.TotalBudgetVND,
		Status:               status,
	}

	if err := s.tripRepo.CreateTrip(ctx, trip); err != nil {
		return nil, err
	}

	s.logger.Info("trip created",
		"id", trip.ID,
		"title", trip.Title,
		"user_id", trip.OwnerID,
	)
	return trip, nil
}

// GetTripDetail returns the trip with its full itinerary and cost total.
func (s *tripService) GetTripDetail(ctx context.Context, tripID, userID string) (*models.TripDetail, error) {
	trip, err := s.tripRepo.GetTrip(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	return s.assembleDetail(ctx, trip)
}

// assembleDetail loads days and items for an already-authorized trip.
func (s *tripService) assembleDetail(ctx context.Context, trip *models.Trip) (*models.TripDetail, error) {
	days, err := s.itineraryRepo.ListDays(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	items, err := s.itineraryRepo.ListItemsByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	itemsByDay := lo.GroupBy(items, func(item models.TripItem) string {
		return item.TripDayID
	})

	detail := &models.TripDetail{
		Trip: *trip,
		Days: make([]models.TripDayWithItems, 0, len(days)),
		EstimatedCostVND: lo.SumBy(items, func(item models.TripItem) int64 {
			return item.EstimatedCostVND
		}),
	}
	for _, day := range days {
		dayItems := itemsByDay[day.ID]
		if dayItems == nil {
			dayItems = []models.TripItem{}
		}
		detail.Days = append(detail.Days, models.TripDayWithItems{
			TripDay: day,
			Items:   dayItems,
		})
	}
	return detail, nil
}

// ListTrips retrieves all trips for a user.
func (s *tripService) ListTrips(ctx context.Context, userID string) ([]models.Trip, error) {
	return s.tripRepo.ListTrips(ctx, userID)
}

// UpdateTrip applies a partial update to a trip.
func (s *tripService) UpdateTrip(ctx context.Context, tripID, userID string, req *services.UpdateTripRequest) (*models.Trip, error) {
	trip, err := s.tripRepo.GetTrip(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		trip.Title = strings.TrimSpace(*req.Title)
	}
	if req.DestinationProvinces != nil {
		trip.DestinationProvinces = req.DestinationProvinces
	}
	if req.StartDate != nil {
		trip.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		trip.EndDate = req.EndDate
	}
	if req.TravelersCount != nil {
		trip.TravelersCount = *req.TravelersCount
	}
	if req.Mode != nil {
		trip.Mode = *req.Mode
	}
	if req.TotalBudgetVND != nil {
		trip.TotalBudgetVND = *req.TotalBudgetVND
	}
	if req.Status != nil {
		trip.Status = *req.Status
	}

	if err := s.validateTrip(trip); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.tripRepo.UpdateTrip(ctx, trip); err != nil {
		return nil, err
	}

	s.logger.Info("trip updated", "id", trip.ID, "user_id", userID)
	return trip, nil
}

// DeleteTrip deletes a trip and, via cascade, its itinerary.
func (s *tripService) DeleteTrip(ctx context.Context, tripID, userID string) error {
	if err := s.tripRepo.DeleteTrip(ctx, tripID, userID); err != nil {
		return err
	}
	s.logger.Info("trip deleted", "id", tripID, "user_id", userID)
	return nil
}

// AddDay appends a day to a trip.
func (s *tripService) AddDay(ctx context.Context, tripID, userID string, req *services.AddDayRequest) (*models.TripDay, error) {
	if _, err := s.tripRepo.GetTrip(ctx, tripID, userID); err != nil {
		return nil, err
	}

	err := validation.Errors{
		"day_index": validation.Validate(req.DayIndex, validation.Required, validation.Min(1)),
		"date":      validateOptionalDate(req.Date),
	}.Filter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	day := &models.TripDay{
		TripID:   tripID,
		DayIndex: req.DayIndex,
		Date:     req.Date,
		Summary:  req.Summary,
	}
	if err := s.itineraryRepo.CreateDay(ctx, day); err != nil {
		return nil, err
	}
	return day, nil
}

// DeleteDay removes one day and its items.
func (s *tripService) DeleteDay(ctx context.Context, dayID, userID string) error {
	return s.itineraryRepo.DeleteDay(ctx, dayID, userID)
}

// AddItem adds an item to a day the user owns.
func (s *tripService) AddItem(ctx context.Context, dayID, userID string, req *services.AddItemRequest) (*models.TripItem, error) {
	day, err := s.itineraryRepo.GetDay(ctx, dayID, userID)
	if err != nil {
		return nil, err
	}

	itemType := req.ItemType
	if itemType == "" {
		itemType = models.ItemVisit
	}

	item := &models.TripItem{
		TripDayID:        day.ID,
		ItemType:         itemType,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		LocationName:     req.LocationName,
		Lat:              req.Lat,
		Lng:              req.Lng,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		EstimatedCostVND: req.EstimatedCostVND,
		IsHiddenGem:      req.IsHiddenGem,
		SortOrder:        req.SortOrder,
	}
	if err := s.validateItem(item); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.itineraryRepo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem applies a partial update to an item the user owns.
func (s *tripService) UpdateItem(ctx context.Context, itemID, userID string, req *services.UpdateItemRequest) (*models.TripItem, error) {
	item, err := s.itineraryRepo.GetItem(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}

	if req.ItemType != nil {
		item.ItemType = *req.ItemType
	}
	if req.Title != nil {
		item.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.LocationName != nil {
		item.LocationName = req.LocationName
	}
	if req.Lat != nil {
		item.Lat = req.Lat
	}
	if req.Lng != nil {
		item.Lng = req.Lng
	}
	if req.StartTime != nil {
		item.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		item.EndTime = req.EndTime
	}
	if req.EstimatedCostVND != nil {
		item.EstimatedCostVND = *req.EstimatedCostVND
	}
	if req.IsHiddenGem != nil {
		item.IsHiddenGem = *req.IsHiddenGem
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}

	if err := s.validateItem(item); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.itineraryRepo.UpdateItem(ctx, item, userID); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes one item.
func (s *tripService) DeleteItem(ctx context.Context, itemID, userID string) error {
	return s.itineraryRepo.DeleteItem(ctx, itemID, userID)
}

// validateCreateRequest validates a create trip request.
func (s *tripService) validateCreateRequest(req *services.CreateTripRequest) error {
	return validation.Errors{
		"owner_id": validation.Validate(req.OwnerID, validation.Required),
		"title": validation.Validate(req.Title,
			validation.Required,
			validation.RuneLength(1, config.MaxTripTitleLength),
		),
		"mode":             validateMode(req.Mode),
		"status":           validateNewStatus(req.Status),
		"total_budget_vnd": validation.Validate(req.TotalBudgetVND, validation.Min(int64(0))),
		"travelers_count":  validation.Validate(req.TravelersCount, validation.Min(0)),
		"start_date":       validateOptionalDate(req.StartDate),
		"end_date":         validateOptionalDate(req.EndDate),
	}.Filter()
}

// validateTrip validates the merged result of a trip update.
func (s *tripService) validateTrip(trip *models.Trip) error {
	return validation.Errors{
		"title": validation.Validate(trip.Title,
			validation.Required,
			validation.RuneLength(1, config.MaxTripTitleLength),
		),
		"mode":             validateMode(trip.Mode),
		"status":           validateStatus(trip.Status),
		"total_budget_vnd": validation.Validate(trip.TotalBudgetVND, validation.Min(int64(0))),
		"travelers_count":  validation.Validate(trip.TravelersCount, validation.Min(1)),
		"start_date":       validateOptionalDate(trip.StartDate),
		"end_date":         validateOptionalDate(trip.EndDate),
	}.Filter()
}

// validateItem validates an item before it is written.
func (s *tripService) validateItem(item *models.TripItem) error {
	return validation.Errors{
		"title": validation.Validate(item.Title,
			validation.Required,
			validation.RuneLength(1, config.MaxItemTitleLength),
		),
		"item_type":          validateItemType(item.ItemType),
		"description":        validateOptionalLength(item.Description, config.MaxItemDescriptionLength),
		"start_time":         validateOptionalTime(item.StartTime),
		"end_time":           validateOptionalTime(item.EndTime),
		"estimated_cost_vnd": validation.Validate(item.EstimatedCostVND, validation.Min(int64(0))),
		"sort_order":         validation.Validate(item.SortOrder, validation.Min(0)),
	}.Filter()
}

func validateMode(mode models.TripMode) error {
	if mode == "" || models.ValidTripMode(mode) {
		return nil
	}
	return fmt.Errorf("must be one of solo, couple, family, friends")
}

// validateNewStatus allows the zero value; CreateTrip fills in the default.
func validateNewStatus(status models.TripStatus) error {
	if status == "" {
		return nil
	}
	return validateStatus(status)
}

func validateStatus(status models.TripStatus) error {
	switch status {
	case models.StatusDraft, models.StatusPlanned, models.StatusOngoing, models.StatusCompleted:
		return nil
	}
	return fmt.Errorf("must be one of draft, planned, ongoing, completed")
}

func validateItemType(itemType models.ItemType) error {
	switch itemType {
	case models.ItemFood, models.ItemStay, models.ItemTransport, models.ItemVisit:
		return nil
	}
	return fmt.Errorf("must be one of food, stay, transport, visit")
}

func validateOptionalDate(date *string) error {
	if date == nil {
		return nil
	}
	if !datePattern.MatchString(*date) {
		return fmt.Errorf("must be YYYY-MM-DD")
	}
	return nil
}

func validateOptionalTime(t *string) error {
	if t == nil {
		return nil
	}
	if !timePattern.MatchString(*t) {
		return fmt.Errorf("must be HH:MM")
	}
	return nil
}

func validateOptionalLength(s *string, max int) error {
	if s == nil {
		return nil
	}
	return validation.Validate(*s, validation.RuneLength(0, max))
}
