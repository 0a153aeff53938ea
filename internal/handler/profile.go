package handler

import (
	"log/slog"
	"net/http"

	"travelviet/internal/domain/services"
	"travelviet/internal/httputil"
)

// ProfileHandler handles user profile HTTP requests.
type ProfileHandler struct {
	profileService services.ProfileService
	logger         *slog.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService services.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// GetProfile returns the authenticated user's profile.
// GET /api/users/me/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.GetProfile(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, profile)
}

// UpdateProfile applies a partial update to the user's profile.
// PATCH /api/users/me/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateProfileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, profile)
}
