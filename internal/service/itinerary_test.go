package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"travelviet/internal/domain"
	"travelviet/internal/domain/models"
	"travelviet/internal/domain/repositories"
)

// fakeTripRepo satisfies TripRepository; only GetTrip matters here.
type fakeTripRepo struct {
	trips map[string]*models.Trip // keyed by tripID+ownerID
}

func tripKey(tripID, ownerID string) string { return tripID + "/" + ownerID }

func (f *fakeTripRepo) GetTrip(ctx context.Context, tripID, ownerID string) (*models.Trip, error) {
	trip, ok := f.trips[tripKey(tripID, ownerID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return trip, nil
}

func (f *fakeTripRepo) CreateTrip(ctx context.Context, trip *models.Trip) error { return nil }
func (f *fakeTripRepo) GetTripByShareSlug(ctx context.Context, slug string) (*models.Trip, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeTripRepo) ListTrips(ctx context.Context, ownerID string) ([]models.Trip, error) {
	return nil, nil
}
func (f *fakeTripRepo) UpdateTrip(ctx context.Context, trip *models.Trip) error { return nil }
func (f *fakeTripRepo) DeleteTrip(ctx context.Context, tripID, ownerID string) error {
	return nil
}
func (f *fakeTripRepo) SetShareSlug(ctx context.Context, tripID, ownerID string, slug *string) error {
	return nil
}

// fakeItineraryRepo records writes so tests can assert the save shape.
type fakeItineraryRepo struct {
	deletedTrips []string
	days         []models.TripDay
	items        []models.TripItem
	item         *models.TripItem // returned by GetItem when set
	createDayErr error
}

func (f *fakeItineraryRepo) CreateDay(ctx context.Context, day *models.TripDay) error {
	if f.createDayErr != nil {
		return f.createDayErr
	}
	day.ID = fmt.Sprintf("day-%d", len(f.days)+1)
	f.days = append(f.days, *day)
	return nil
}

func (f *fakeItineraryRepo) CreateItem(ctx context.Context, item *models.TripItem) error {
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeItineraryRepo) DeleteDaysByTrip(ctx context.Context, tripID string) error {
	f.deletedTrips = append(f.deletedTrips, tripID)
	return nil
}

func (f *fakeItineraryRepo) GetDay(ctx context.Context, dayID, ownerID string) (*models.TripDay, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeItineraryRepo) ListDays(ctx context.Context, tripID string) ([]models.TripDay, error) {
	return nil, nil
}
func (f *fakeItineraryRepo) DeleteDay(ctx context.Context, dayID, ownerID string) error { return nil }
func (f *fakeItineraryRepo) GetItem(ctx context.Context, itemID, ownerID string) (*models.TripItem, error) {
	if f.item != nil {
		clone := *f.item
		return &clone, nil
	}
	return nil, domain.ErrNotFound
}
func (f *fakeItineraryRepo) ListItemsByTrip(ctx context.Context, tripID string) ([]models.TripItem, error) {
	return nil, nil
}
func (f *fakeItineraryRepo) UpdateItem(ctx context.Context, item *models.TripItem, ownerID string) error {
	return nil
}
func (f *fakeItineraryRepo) DeleteItem(ctx context.Context, itemID, ownerID string) error {
	return nil
}

// fakeTxManager runs the function directly; the real transaction semantics
// live in the postgres package.
type fakeTxManager struct{}

func (f *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSaveFromTextUnknownTrip(t *testing.T) {
	tripRepo := &fakeTripRepo{trips: map[string]*models.Trip{}}
	itinRepo := &fakeItineraryRepo{}
	svc := NewItineraryService(tripRepo, itinRepo, &fakeTxManager{}, testLogger())

	_, err := svc.SaveFromText(context.Background(), "trip-1", "user-1", "## Ngày 1\n- Sáng: Tham quan chợ Đà Lạt\n")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if len(itinRepo.deletedTrips) != 0 {
		t.Error("nothing should be deleted for an unknown trip")
	}
}

func TestSaveFromTextNoStructure(t *testing.T) {
	tripRepo := &fakeTripRepo{trips: map[string]*models.Trip{
		tripKey("trip-1", "user-1"): {ID: "trip-1", OwnerID: "user-1"},
	}}
	itinRepo := &fakeItineraryRepo{}
	svc := NewItineraryService(tripRepo, itinRepo, &fakeTxManager{}, testLogger())

	result, err := svc.SaveFromText(context.Background(), "trip-1", "user-1", "Đà Lạt rất đẹp vào mùa xuân.")
	if err != nil {
		t.Fatalf("SaveFromText returned error: %v", err)
	}
	if result.DaysSaved != 0 || result.ItemsSaved != 0 {
		t.Errorf("result = %+v, want zero", result)
	}
	if len(itinRepo.deletedTrips) != 0 {
		t.Error("an empty parse must not delete the existing itinerary")
	}
}

func TestSaveFromTextReplacesItinerary(t *testing.T) {
	tripRepo := &fakeTripRepo{trips: map[string]*models.Trip{
		tripKey("trip-1", "user-1"): {ID: "trip-1", OwnerID: "user-1"},
	}}
	itinRepo := &fakeItineraryRepo{}
	svc := NewItineraryService(tripRepo, itinRepo, &fakeTxManager{}, testLogger())

	text := "## Ngày 1: 2024-06-01\n" +
		"- **8:00**: Tham quan [Hồ Xuân Hương](https://maps.google.com/?q=hxh), vé 50.000đ\n" +
		"- **Trưa**: Ăn bánh căn tại quán gần chợ\n" +
		"## Ngày 2\n" +
		"- Sáng: Nghỉ ngơi tại khách sạn trước khi về\n"

	result, err := svc.SaveFromText(context.Background(), "trip-1", "user-1", text)
	if err != nil {
		t.Fatalf("SaveFromText returned error: %v", err)
	}
	if result.DaysSaved != 2 || result.ItemsSaved != 3 {
		t.Errorf("result = %+v, want 2 days / 3 items", result)
	}

	if len(itinRepo.deletedTrips) != 1 || itinRepo.deletedTrips[0] != "trip-1" {
		t.Errorf("deleted trips = %v, want [trip-1]", itinRepo.deletedTrips)
	}
	if len(itinRepo.days) != 2 {
		t.Fatalf("created days = %d, want 2", len(itinRepo.days))
	}
	if itinRepo.days[0].DayIndex != 1 || itinRepo.days[0].Date == nil || *itinRepo.days[0].Date != "2024-06-01" {
		t.Errorf("day 1 = %+v", itinRepo.days[0])
	}
	if itinRepo.days[1].DayIndex != 2 || itinRepo.days[1].Date != nil {
		t.Errorf("day 2 = %+v", itinRepo.days[1])
	}

	if len(itinRepo.items) != 3 {
		t.Fatalf("created items = %d, want 3", len(itinRepo.items))
	}
	first := itinRepo.items[0]
	if first.TripDayID != "day-1" {
		t.Errorf("first item day = %q, want day-1", first.TripDayID)
	}
	if first.SortOrder != 0 || itinRepo.items[1].SortOrder != 1 {
		t.Errorf("sort orders = %d, %d", first.SortOrder, itinRepo.items[1].SortOrder)
	}
	if first.EstimatedCostVND != 50000 {
		t.Errorf("first item cost = %d, want 50000", first.EstimatedCostVND)
	}
	if itinRepo.items[2].TripDayID != "day-2" {
		t.Errorf("third item day = %q, want day-2", itinRepo.items[2].TripDayID)
	}
	if itinRepo.items[2].ItemType != models.ItemStay {
		t.Errorf("third item type = %q, want stay", itinRepo.items[2].ItemType)
	}
}

func TestSaveFromTextWriteFailure(t *testing.T) {
	tripRepo := &fakeTripRepo{trips: map[string]*models.Trip{
		tripKey("trip-1", "user-1"): {ID: "trip-1", OwnerID: "user-1"},
	}}
	itinRepo := &fakeItineraryRepo{createDayErr: errors.New("insert failed")}
	svc := NewItineraryService(tripRepo, itinRepo, &fakeTxManager{}, testLogger())

	_, err := svc.SaveFromText(context.Background(), "trip-1", "user-1", "## Ngày 1\n- Sáng: Tham quan chợ Đà Lạt\n")
	if err == nil {
		t.Fatal("expected write failure to surface")
	}
}
