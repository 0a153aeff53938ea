package handler

import (
	"log/slog"
	"net/http"

	"travelviet/internal/domain/services"
	"travelviet/internal/handler/sse"
	"travelviet/internal/httputil"
)

// ChatHandler handles chat session HTTP requests and the SSE stream relay.
type ChatHandler struct {
	chatService services.ChatService
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService services.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// CreateSession starts a chat session.
// POST /api/sessions
func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req services.CreateSessionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.chatService.CreateSession(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, session)
}

// ListSessions lists the user's sessions, optionally filtered to one trip.
// GET /api/sessions?trip_id=
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	var tripID *string
	if v := r.URL.Query().Get("trip_id"); v != "" {
		tripID = &v
	}

	sessions, err := h.chatService.ListSessions(r.Context(), httputil.GetUserID(r), tripID)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, sessions)
}

// GetSession returns one session.
// GET /api/sessions/{id}
func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.chatService.GetSession(r.Context(), r.PathValue("id"), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, session)
}

// DeleteSession removes a session and its messages.
// DELETE /api/sessions/{id}
func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatService.DeleteSession(r.Context(), r.PathValue("id"), httputil.GetUserID(r)); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMessages returns the session's messages oldest first.
// GET /api/sessions/{id}/messages
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chatService.ListMessages(r.Context(), r.PathValue("id"), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, messages)
}

// AddMessage appends one message to a session. The frontend persists the
// user's message here before requesting the streamed reply.
// POST /api/sessions/{id}/messages
func (h *ChatHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	var req services.AddMessageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	message, err := h.chatService.AddMessage(r.Context(), r.PathValue("id"), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, message)
}

// deltaEvent is the per-delta payload relayed to the web client.
type deltaEvent struct {
	Content string `json:"content"`
}

// errorEvent is the terminal event when a stream fails mid-flight.
type errorEvent struct {
	Error string `json:"error"`
}

// StreamMessage runs one streamed AI turn and relays deltas as SSE.
//
// Errors before the first delta (rate limit, payment, gateway down, a
// second concurrent stream) still produce a plain JSON error with the right
// status. Once the stream has started the headers are out, so failures
// become a terminal SSE error event instead.
// POST /api/sessions/{id}/stream
func (h *ChatHandler) StreamMessage(w http.ResponseWriter, r *http.Request) {
	var req services.StreamRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	stream, err := sse.NewWriter(w)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	keepAlive := sse.NewTickerKeepAlive(sse.DefaultKeepAliveInterval)
	defer keepAlive.Stop()
	keepAlive.Start(stream, h.logger)

	sessionID := r.PathValue("id")

	// Deltas arrive as the accumulated text; relay only the new suffix.
	sent := 0
	onDelta := func(partial string) {
		delta := partial[sent:]
		sent = len(partial)
		if delta == "" {
			return
		}
		if err := stream.SendJSON(deltaEvent{Content: delta}); err != nil {
			h.logger.Debug("client dropped during stream", "session_id", sessionID)
		}
	}

	_, err = h.chatService.StreamMessage(r.Context(), sessionID, httputil.GetUserID(r), &req, onDelta)
	if err != nil {
		if stream.Started() {
			// Headers are out; the best we can do is a terminal event.
			stream.SendEvent("error", errorEvent{Error: err.Error()})
			return
		}
		if status, ok := plannerStatus(err); ok {
			httputil.RespondError(w, status, err.Error())
			return
		}
		handleError(w, err)
		return
	}

	if err := stream.SendDone(); err != nil {
		h.logger.Debug("client dropped before done sentinel", "session_id", sessionID)
	}
}
