package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"travelviet/internal/config"
	"travelviet/internal/domain"
	"travelviet/internal/domain/models"
	"travelviet/internal/domain/repositories"
	"travelviet/internal/domain/services"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const (
	communityFeedKey  = "community:feed"
	sharedTripKeyFmt  = "share:%s"
	communityFeedSize = 50
)

// communityService implements the CommunityService interface. Public reads
// (shared trips, the community feed) sit behind a short-lived cache since
// they are unauthenticated and fan out to several queries.
type communityService struct {
	tripRepo      repositories.TripRepository
	communityRepo repositories.CommunityRepository
	tripService   services.TripService
	cache         *gocache.Cache
	logger        *slog.Logger
}

// NewCommunityService creates a new community service.
func NewCommunityService(
	tripRepo repositories.TripRepository,
	communityRepo repositories.CommunityRepository,
	tripService services.TripService,
	cache *gocache.Cache,
	logger *slog.Logger,
) services.CommunityService {
	return &communityService{
		tripRepo:      tripRepo,
		communityRepo: communityRepo,
		tripService:   tripService,
		cache:         cache,
		logger:        logger,
	}
}

// ShareTrip generates a public share slug for the trip, or returns the
// existing one.
func (s *communityService) ShareTrip(ctx context.Context, tripID, userID string) (*services.ShareResult, error) {
	trip, err := s.tripRepo.GetTrip(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	if trip.ShareSlug != nil {
		return &services.ShareResult{ShareSlug: *trip.ShareSlug}, nil
	}

	slug := newShareSlug()
	if err := s.tripRepo.SetShareSlug(ctx, tripID, userID, &slug); err != nil {
		return nil, err
	}

	s.logger.Info("trip shared", "trip_id", tripID, "slug", slug)
	return &services.ShareResult{ShareSlug: slug}, nil
}

// UnshareTrip revokes the trip's share slug and drops the cached copy.
func (s *communityService) UnshareTrip(ctx context.Context, tripID, userID string) error {
	trip, err := s.tripRepo.GetTrip(ctx, tripID, userID)
	if err != nil {
		return err
	}
	if trip.ShareSlug == nil {
		return fmt.Errorf("trip %s has no share link: %w", tripID, domain.ErrNotFound)
	}

	if err := s.tripRepo.SetShareSlug(ctx, tripID, userID, nil); err != nil {
		return err
	}
	s.cache.Delete(fmt.Sprintf(sharedTripKeyFmt, *trip.ShareSlug))

	s.logger.Info("trip unshared", "trip_id", tripID)
	return nil
}

// GetSharedTrip resolves a share slug to the full itinerary. Cached; a
// revoked slug falls through to the repository and returns not-found.
func (s *communityService) GetSharedTrip(ctx context.Context, slug string) (*models.TripDetail, error) {
	key := fmt.Sprintf(sharedTripKeyFmt, slug)
	if cached, found := s.cache.Get(key); found {
		return cached.(*models.TripDetail), nil
	}

	trip, err := s.tripRepo.GetTripByShareSlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	detail, err := s.tripService.GetTripDetail(ctx, trip.ID, trip.OwnerID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, detail, gocache.DefaultExpiration)
	return detail, nil
}

// PublishTrip publishes a trip to the community feed. Publishing twice
// conflicts.
func (s *communityService) PublishTrip(ctx context.Context, tripID, userID string, req *services.PublishRequest) (*models.PublicItinerary, error) {
	trip, err := s.tripRepo.GetTrip(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}

	entry := &models.PublicItinerary{
		TripID:  trip.ID,
		OwnerID: userID,
		Title:   trip.Title,
	}
	if req != nil {
		entry.Summary = req.Summary
		if req.Tags != nil {
			entry.Tags = normalizeTags(req.Tags)
		}
	}
	if entry.Tags == nil {
		entry.Tags = []string{}
	}

	if err := s.communityRepo.Publish(ctx, entry); err != nil {
		return nil, err
	}
	s.cache.Delete(communityFeedKey)

	s.logger.Info("trip published", "trip_id", tripID, "user_id", userID)
	return entry, nil
}

// UnpublishTrip removes a trip from the community feed.
func (s *communityService) UnpublishTrip(ctx context.Context, tripID, userID string) error {
	if err := s.communityRepo.Unpublish(ctx, tripID, userID); err != nil {
		return err
	}
	s.cache.Delete(communityFeedKey)

	s.logger.Info("trip unpublished", "trip_id", tripID, "user_id", userID)
	return nil
}

// ListCommunity returns the newest published itineraries. Cached; the cap
// keeps the public endpoint cheap.
func (s *communityService) ListCommunity(ctx context.Context, limit int) ([]models.PublicItinerary, error) {
	if limit <= 0 || limit > communityFeedSize {
		limit = communityFeedSize
	}

	if cached, found := s.cache.Get(communityFeedKey); found {
		entries := cached.([]models.PublicItinerary)
		if limit < len(entries) {
			entries = entries[:limit]
		}
		return entries, nil
	}

	entries, err := s.communityRepo.ListPublished(ctx, communityFeedSize)
	if err != nil {
		return nil, err
	}
	s.cache.Set(communityFeedKey, entries, gocache.DefaultExpiration)

	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

// newShareSlug returns a short, unguessable slug. The uuid's first segment
// is enough entropy for share links while staying readable in a URL.
func newShareSlug() string {
	id := uuid.NewString()
	return strings.ReplaceAll(id, "-", "")[:16]
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && len(out) < config.MaxCommunityTags {
			out = append(out, tag)
		}
	}
	return out
}
