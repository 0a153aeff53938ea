package handler

import (
	"log/slog"
	"net/http"

	"travelviet/internal/domain/services"
	"travelviet/internal/httputil"
)

// TripHandler handles trip and itinerary-item HTTP requests.
type TripHandler struct {
	tripService services.TripService
	logger      *slog.Logger
}

// NewTripHandler creates a new trip handler.
func NewTripHandler(tripService services.TripService, logger *slog.Logger) *TripHandler {
	return &TripHandler{
		tripService: tripService,
		logger:      logger,
	}
}

// CreateTrip creates a new trip.
// POST /api/trips
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req services.CreateTripRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.OwnerID = httputil.GetUserID(r)

	trip, err := h.tripService.CreateTrip(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, trip)
}

// ListTrips lists the user's trips.
// GET /api/trips
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.tripService.ListTrips(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, trips)
}

// GetTrip returns one trip with its full itinerary.
// GET /api/trips/{id}
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	detail, err := h.tripService.GetTripDetail(r.Context(), r.PathValue("id"), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, detail)
}

// UpdateTrip applies a partial update to a trip.
// PATCH /api/trips/{id}
func (h *TripHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateTripRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := h.tripService.UpdateTrip(r.Context(), r.PathValue("id"), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, trip)
}

// DeleteTrip deletes a trip.
// DELETE /api/trips/{id}
func (h *TripHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := h.tripService.DeleteTrip(r.Context(), r.PathValue("id"), httputil.GetUserID(r)); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddDay appends a day to a trip.
// POST /api/trips/{id}/days
func (h *TripHandler) AddDay(w http.ResponseWriter, r *http.Request) {
	var req services.AddDayRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	day, err := h.tripService.AddDay(r.Context(), r.PathValue("id"), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, day)
}

// DeleteDay removes one day and its items.
// DELETE /api/days/{id}
func (h *TripHandler) DeleteDay(w http.ResponseWriter, r *http.Request) {
	if err := h.tripService.DeleteDay(r.Context(), r.PathValue("id"), httputil.GetUserID(r)); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddItem adds an item to a day.
// POST /api/days/{id}/items
func (h *TripHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req services.AddItemRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.tripService.AddItem(r.Context(), r.PathValue("id"), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, item)
}

// UpdateItem applies a partial update to an item.
// PATCH /api/items/{id}
func (h *TripHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateItemRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.tripService.UpdateItem(r.Context(), r.PathValue("id"), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, item)
}

// DeleteItem removes one item.
// DELETE /api/items/{id}
func (h *TripHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.tripService.DeleteItem(r.Context(), r.PathValue("id"), httputil.GetUserID(r)); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
