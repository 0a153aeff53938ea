package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"travelviet/internal/domain/services"
	"travelviet/internal/httputil"
)

// CommunityHandler handles share links and the public community feed.
type CommunityHandler struct {
	communityService services.CommunityService
	logger           *slog.Logger
}

// NewCommunityHandler creates a new community handler.
func NewCommunityHandler(communityService services.CommunityService, logger *slog.Logger) *CommunityHandler {
	return &CommunityHandler{
		communityService: communityService,
		logger:           logger,
	}
}

// ShareTrip generates or returns the trip's public share slug.
// POST /api/trips/{id}/share
func (h *CommunityHandler) ShareTrip(w http.ResponseWriter, r *http.Request) {
	result, err := h.communityService.ShareTrip(r.Context(), r.PathValue("id"), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

// UnshareTrip revokes the trip's share slug.
// DELETE /api/trips/{id}/share
func (h *CommunityHandler) UnshareTrip(w http.ResponseWriter, r *http.Request) {
	if err := h.communityService.UnshareTrip(r.Context(), r.PathValue("id"), httputil.GetUserID(r)); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSharedTrip resolves a share slug to the full itinerary. Public.
// GET /api/share/{slug}
func (h *CommunityHandler) GetSharedTrip(w http.ResponseWriter, r *http.Request) {
	detail, err := h.communityService.GetSharedTrip(r.Context(), r.PathValue("slug"))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, detail)
}

// PublishTrip publishes a trip to the community feed.
// POST /api/trips/{id}/publish
func (h *CommunityHandler) PublishTrip(w http.ResponseWriter, r *http.Request) {
	var req services.PublishRequest
	if r.ContentLength > 0 {
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	entry, err := h.communityService.PublishTrip(r.Context(), r.PathValue("id"), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, entry)
}

// UnpublishTrip removes a trip from the community feed.
// DELETE /api/trips/{id}/publish
func (h *CommunityHandler) UnpublishTrip(w http.ResponseWriter, r *http.Request) {
	if err := h.communityService.UnpublishTrip(r.Context(), r.PathValue("id"), httputil.GetUserID(r)); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCommunity returns the newest published itineraries. Public.
// GET /api/community?limit=
func (h *CommunityHandler) ListCommunity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	entries, err := h.communityService.ListCommunity(r.Context(), limit)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, entries)
}
