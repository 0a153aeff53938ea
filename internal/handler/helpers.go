// Package handler exposes the HTTP surface: trip and chat CRUD, the SSE
// chat relay, itinerary save/export, sharing and profiles.
package handler

import (
	"errors"
	"net/http"

	"travelviet/internal/domain"
	"travelviet/internal/httputil"
	"travelviet/internal/planner"
)

// handleError converts domain errors to HTTP responses.
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// plannerStatus maps an AI gateway error to the status the web client
// should see. ok is false when err is not a planner error.
func plannerStatus(err error) (int, bool) {
	var (
		rateLimit   *planner.RateLimitError
		payment     *planner.PaymentRequiredError
		upstream    *planner.UpstreamError
		decodeError *planner.StreamDecodeError
	)
	switch {
	case errors.Is(err, planner.ErrStreamActive):
		return http.StatusConflict, true
	case errors.As(err, &rateLimit):
		return http.StatusTooManyRequests, true
	case errors.As(err, &payment):
		return http.StatusPaymentRequired, true
	case errors.As(err, &upstream), errors.As(err, &decodeError):
		return http.StatusBadGateway, true
	}
	return 0, false
}
