package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"travelviet/internal/domain"
	"travelviet/internal/domain/models"
	"travelviet/internal/domain/repositories"
	"travelviet/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// profileService implements the ProfileService interface.
type profileService struct {
	profileRepo repositories.ProfileRepository
	logger      *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(profileRepo repositories.ProfileRepository, logger *slog.Logger) services.ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// GetProfile returns the user's profile. First access creates an empty row
// so the frontend always has something to render.
func (s *profileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	profile = &models.Profile{ID: userID, TravelStyles: []string{}}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Info("profile created", "user_id", userID)
	return profile, nil
}

// UpdateProfile applies a partial update to the user's profile.
func (s *profileService) UpdateProfile(ctx context.Context, userID string, req *services.UpdateProfileRequest) (*models.Profile, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		profile.FullName = req.FullName
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}
	if req.HomeCity != nil {
		profile.HomeCity = req.HomeCity
	}
	if req.TravelStyles != nil {
		profile.TravelStyles = req.TravelStyles
	}
	if req.BudgetMinVND != nil {
		profile.BudgetMinVND = *req.BudgetMinVND
	}
	if req.BudgetMaxVND != nil {
		profile.BudgetMaxVND = *req.BudgetMaxVND
	}

	if profile.BudgetMaxVND > 0 && profile.BudgetMinVND > profile.BudgetMaxVND {
		return nil, fmt.Errorf("%w: budget_min_vnd cannot exceed budget_max_vnd", domain.ErrValidation)
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", userID)
	return profile, nil
}

// validateUpdateRequest validates a profile update request.
func (s *profileService) validateUpdateRequest(req *services.UpdateProfileRequest) error {
	return validation.Errors{
		"full_name":      validateOptionalLength(req.FullName, 255),
		"home_city":      validateOptionalLength(req.HomeCity, 255),
		"budget_min_vnd": validateOptionalMin(req.BudgetMinVND),
		"budget_max_vnd": validateOptionalMin(req.BudgetMaxVND),
	}.Filter()
}

func validateOptionalMin(v *int64) error {
	if v == nil {
		return nil
	}
	return validation.Validate(*v, validation.Min(int64(0)))
}
