package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"travelviet/internal/domain"
	"travelviet/internal/domain/models"
	"travelviet/internal/domain/services"
)

// Title caps count runes, not bytes. A 100-character Vietnamese title is
// well over 100 bytes and must still pass.
func TestUpdateItemTitleCountsRunes(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"hundred multi-byte runes", strings.Repeat("ă", 100), false},
		{"hundred and one runes", strings.Repeat("ă", 101), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			itinRepo := &fakeItineraryRepo{item: &models.TripItem{
				ID:       "item-1",
				ItemType: models.ItemVisit,
				Title:    "Chợ Đà Lạt",
			}}
			svc := NewTripService(&fakeTripRepo{}, itinRepo, testLogger())

			updated, err := svc.UpdateItem(context.Background(), "item-1", "user-1", &services.UpdateItemRequest{
				Title: &tt.title,
			})
			if tt.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateItem returned error: %v", err)
			}
			if updated.Title != tt.title {
				t.Errorf("title = %q, want the full 100-rune title", updated.Title)
			}
		})
	}
}

func TestCreateTripTitleCountsRunes(t *testing.T) {
	svc := NewTripService(&fakeTripRepo{}, &fakeItineraryRepo{}, testLogger())

	// 255 runes, 510 bytes.
	title := strings.Repeat("ế", 255)
	trip, err := svc.CreateTrip(context.Background(), &services.CreateTripRequest{
		OwnerID: "user-1",
		Title:   title,
		Mode:    models.ModeSolo,
	})
	if err != nil {
		t.Fatalf("CreateTrip returned error: %v", err)
	}
	if trip.Title != title {
		t.Errorf("title = %q, want the full 255-rune title", trip.Title)
	}

	_, err = svc.CreateTrip(context.Background(), &services.CreateTripRequest{
		OwnerID: "user-1",
		Title:   strings.Repeat("ế", 256),
		Mode:    models.ModeSolo,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for 256-rune title, got %v", err)
	}
}
