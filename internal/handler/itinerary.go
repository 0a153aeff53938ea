package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"travelviet/internal/domain/services"
	"travelviet/internal/httputil"
)

// ItineraryHandler handles saving parsed itineraries and exporting them.
type ItineraryHandler struct {
	itineraryService services.ItineraryService
	exportService    services.ExportService
	logger           *slog.Logger
}

// NewItineraryHandler creates a new itinerary handler.
func NewItineraryHandler(
	itineraryService services.ItineraryService,
	exportService services.ExportService,
	logger *slog.Logger,
) *ItineraryHandler {
	return &ItineraryHandler{
		itineraryService: itineraryService,
		exportService:    exportService,
		logger:           logger,
	}
}

type saveItineraryRequest struct {
	Content string `json:"content"`
}

// SaveItinerary parses assistant text and replaces the trip's itinerary.
// A response with zero days means no structured itinerary was found in the
// text; the frontend prompts the user to ask for a day-by-day plan.
// POST /api/trips/{id}/itinerary
func (h *ItineraryHandler) SaveItinerary(w http.ResponseWriter, r *http.Request) {
	var req saveItineraryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		httputil.RespondError(w, http.StatusBadRequest, "content is required")
		return
	}

	result, err := h.itineraryService.SaveFromText(r.Context(), r.PathValue("id"), httputil.GetUserID(r), req.Content)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

// ExportICS downloads the trip itinerary as an iCalendar file.
// GET /api/trips/{id}/export.ics
func (h *ItineraryHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	data, err := h.exportService.ExportICS(r.Context(), r.PathValue("id"), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
