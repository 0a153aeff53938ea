package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type storedMessage struct {
	SessionID string
	Role      string
	Content   string
}

// fakeStore records persistence calls so tests can assert exactly what was
// (or was not) written after a stream.
type fakeStore struct {
	mu       sync.Mutex
	added    []storedMessage
	touched  []string
	addErr   error
	touchErr error
}

func (s *fakeStore) AddMessage(ctx context.Context, sessionID, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addErr != nil {
		return s.addErr
	}
	s.added = append(s.added, storedMessage{SessionID: sessionID, Role: role, Content: content})
	return nil
}

func (s *fakeStore) TouchSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.touchErr != nil {
		return s.touchErr
	}
	s.touched = append(s.touched, sessionID)
	return nil
}

func (s *fakeStore) addedMessages() []storedMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storedMessage(nil), s.added...)
}

func newTestClient(gatewayURL string, store MessageStore) *Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(Config{
		GatewayURL:  gatewayURL,
		APIKey:      "test-key",
		Model:       "llama-3.3-70b-versatile",
		Temperature: 0.7,
		MaxTokens:   4096,
	}, store, logger)
}

func deltaEvent(content string) string {
	return fmt.Sprintf(`data: {"choices":[{"delta":{"content":%q}}]}`+"\n\n", content)
}

func userMessages(content string) []Message {
	return []Message{{Role: "user", Content: content}}
}

func TestSendMessageAccumulatesChunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")

		// Each write is flushed separately to force multiple reads.
		io.WriteString(w, ": keepalive\n\n")
		flusher.Flush()
		io.WriteString(w, deltaEvent("Xin "))
		flusher.Flush()
		io.WriteString(w, deltaEvent("chào "))
		io.WriteString(w, deltaEvent("bạn!"))
		flusher.Flush()
		io.WriteString(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	defer server.Close()

	store := &fakeStore{}
	client := newTestClient(server.URL, store)

	var partials []string
	full, err := client.SendMessage(context.Background(), "sess-1", userMessages("lên lịch trình Đà Lạt"), nil, func(partial string) {
		partials = append(partials, partial)
	})
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if full != "Xin chào bạn!" {
		t.Errorf("full text = %q, want %q", full, "Xin chào bạn!")
	}

	want := []string{"Xin ", "Xin chào ", "Xin chào bạn!"}
	if len(partials) != len(want) {
		t.Fatalf("got %d deltas, want %d: %v", len(partials), len(want), partials)
	}
	for i := range want {
		if partials[i] != want[i] {
			t.Errorf("delta %d = %q, want %q", i, partials[i], want[i])
		}
	}

	added := store.addedMessages()
	if len(added) != 1 {
		t.Fatalf("expected 1 persisted message, got %d", len(added))
	}
	if added[0].SessionID != "sess-1" || added[0].Role != "assistant" || added[0].Content != "Xin chào bạn!" {
		t.Errorf("persisted message = %+v", added[0])
	}
	if len(store.touched) != 1 || store.touched[0] != "sess-1" {
		t.Errorf("touched sessions = %v, want [sess-1]", store.touched)
	}
}

func TestSendMessagePayloadSplitAcrossChunks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)

		// One JSON payload cut mid-object between two network writes.
		io.WriteString(w, `data: {"choices":[{"del`)
		flusher.Flush()
		io.WriteString(w, `ta":{"content":"Ngày 1: tham quan"}}]}`+"\n\n")
		flusher.Flush()
		io.WriteString(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	defer server.Close()

	store := &fakeStore{}
	client := newTestClient(server.URL, store)

	full, err := client.SendMessage(context.Background(), "sess-1", userMessages("hi"), nil, nil)
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if full != "Ngày 1: tham quan" {
		t.Errorf("full text = %q, want %q", full, "Ngày 1: tham quan")
	}
}

func TestSendMessageSplitInsideRune(t *testing.T) {
	const want = "Đà Lạt mộng mơ"
	event := deltaEvent(want)
	// Cut one byte into the two-byte "Đ" so the boundary lands on a UTF-8
	// continuation byte.
	cut := strings.Index(event, "Đ") + 1

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)

		io.WriteString(w, event[:cut])
		flusher.Flush()
		io.WriteString(w, event[cut:])
		flusher.Flush()
		io.WriteString(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	defer server.Close()

	store := &fakeStore{}
	client := newTestClient(server.URL, store)

	full, err := client.SendMessage(context.Background(), "sess-1", userMessages("hi"), nil, nil)
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if full != want {
		t.Errorf("full text = %q, want %q", full, want)
	}
}

func TestSendMessageDoneDiscardsTrailingData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, deltaEvent("trước"))
		io.WriteString(w, "data: [DONE]\n\n")
		io.WriteString(w, deltaEvent("sau"))
	}))
	defer server.Close()

	store := &fakeStore{}
	client := newTestClient(server.URL, store)

	full, err := client.SendMessage(context.Background(), "sess-1", userMessages("hi"), nil, nil)
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if full != "trước" {
		t.Errorf("full text = %q, want %q (content after [DONE] must be ignored)", full, "trước")
	}
}

func TestSendMessageEOFWithoutDone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, deltaEvent("một nửa câu trả lời"))
		// Connection closes without the [DONE] sentinel.
	}))
	defer server.Close()

	store := &fakeStore{}
	client := newTestClient(server.URL, store)

	full, err := client.SendMessage(context.Background(), "sess-1", userMessages("hi"), nil, nil)
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if full != "một nửa câu trả lời" {
		t.Errorf("full text = %q", full)
	}
	if added := store.addedMessages(); len(added) != 1 {
		t.Errorf("expected the partial text persisted, got %d messages", len(added))
	}
}

func TestSendMessageIgnoresNonDataLines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, ": comment line\n")
		io.WriteString(w, "event: message\n")
		io.WriteString(w, "\n")
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\r\n")
		io.WriteString(w, "data: [DONE]\n")
	}))
	defer server.Close()

	store := &fakeStore{}
	client := newTestClient(server.URL, store)

	full, err := client.SendMessage(context.Background(), "sess-1", userMessages("hi"), nil, nil)
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if full != "ok" {
		t.Errorf("full text = %q, want ok", full)
	}
}

func TestSendMessageUpstreamStatusErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		checkErr func(t *testing.T, err error)
	}{
		{
			name:   "429 rate limit",
			status: http.StatusTooManyRequests,
			body:   `{"error":"rate limit exceeded"}`,
			checkErr: func(t *testing.T, err error) {
				var rle *RateLimitError
				if !errors.As(err, &rle) {
					t.Fatalf("expected *RateLimitError, got %T: %v", err, err)
				}
				if rle.Detail != "rate limit exceeded" {
					t.Errorf("detail = %q", rle.Detail)
				}
			},
		},
		{
			name:   "402 payment required",
			status: http.StatusPaymentRequired,
			body:   `{"error":"quota exhausted"}`,
			checkErr: func(t *testing.T, err error) {
				var pre *PaymentRequiredError
				if !errors.As(err, &pre) {
					t.Fatalf("expected *PaymentRequiredError, got %T: %v", err, err)
				}
			},
		},
		{
			name:   "500 upstream error",
			status: http.StatusInternalServerError,
			body:   `{"error":"internal"}`,
			checkErr: func(t *testing.T, err error) {
				var ue *UpstreamError
				if !errors.As(err, &ue) {
					t.Fatalf("expected *UpstreamError, got %T: %v", err, err)
				}
				if ue.StatusCode != http.StatusInternalServerError {
					t.Errorf("status = %d", ue.StatusCode)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer server.Close()

			store := &fakeStore{}
			client := newTestClient(server.URL, store)

			_, err := client.SendMessage(context.Background(), "sess-1", userMessages("hi"), nil, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			tt.checkErr(t, err)

			if added := store.addedMessages(); len(added) != 0 {
				t.Errorf("nothing should be persisted on failure, got %d messages", len(added))
			}
		})
	}
}

func TestSendMessageUnreachableGateway(t *testing.T) {
	store := &fakeStore{}
	client := newTestClient("http://127.0.0.1:1", store)

	_, err := client.SendMessage(context.Background(), "sess-1", userMessages("hi"), nil, nil)
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UpstreamError, got %T: %v", err, err)
	}
	if ue.StatusCode != 0 {
		t.Errorf("status = %d, want 0 for transport failure", ue.StatusCode)
	}
}

func TestSendMessageEmptyConversation(t *testing.T) {
	store := &fakeStore{}
	client := newTestClient("http://example.invalid", store)

	if _, err := client.SendMessage(context.Background(), "sess-1", nil, nil, nil); err == nil {
		t.Fatal("expected error for empty conversation")
	}
}

func TestSendMessageRejectsConcurrentStream(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		io.WriteString(w, deltaEvent("đang trả lời"))
		flusher.Flush()
		close(started)
		<-release
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	store := &fakeStore{}
	client := newTestClient(server.URL, store)

	firstDone := make(chan error, 1)
	go func() {
		_, err := client.SendMessage(context.Background(), "sess-1", userMessages("hi"), nil, nil)
		firstDone <- err
	}()

	<-started
	_, err := client.SendMessage(context.Background(), "sess-1", userMessages("hi again"), nil, nil)
	if !errors.Is(err, ErrStreamActive) {
		t.Errorf("second call error = %v, want ErrStreamActive", err)
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first stream failed: %v", err)
	}

	// The guard must reset once the first stream finishes.
	server2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer server2.Close()
	client.cfg.GatewayURL = server2.URL
	if _, err := client.SendMessage(context.Background(), "sess-1", userMessages("hi"), nil, nil); err != nil {
		t.Errorf("third call after release failed: %v", err)
	}
}

func TestSendMessageCancellationPersistsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		io.WriteString(w, deltaEvent("một phần"))
		flusher.Flush()
		// Hold the stream open until the client gives up.
		<-r.Context().Done()
	}))
	defer server.Close()

	store := &fakeStore{}
	client := newTestClient(server.URL, store)

	_, err := client.SendMessage(ctx, "sess-1", userMessages("hi"), nil, func(partial string) {
		cancel()
	})
	var sde *StreamDecodeError
	if !errors.As(err, &sde) {
		t.Fatalf("expected *StreamDecodeError, got %T: %v", err, err)
	}
	if added := store.addedMessages(); len(added) != 0 {
		t.Errorf("cancelled stream must persist nothing, got %d messages", len(added))
	}
	if len(store.touched) != 0 {
		t.Errorf("cancelled stream must not touch the session, got %v", store.touched)
	}
}

func TestSendMessagePrependsSystemPrompt(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	store := &fakeStore{}
	client := newTestClient(server.URL, store)

	trip := &TripContext{Destination: []string{"Đà Lạt"}, Mode: "couple"}
	if _, err := client.SendMessage(context.Background(), "sess-1", userMessages("gợi ý lịch trình"), trip, nil); err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}

	if !got.Stream {
		t.Error("request must set stream=true")
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(got.Messages))
	}
	if got.Messages[0].Role != "system" {
		t.Errorf("first message role = %q, want system", got.Messages[0].Role)
	}
	if got.Messages[1].Content != "gợi ý lịch trình" {
		t.Errorf("user message = %q", got.Messages[1].Content)
	}
	if got.TripContext == nil || len(got.TripContext.Destination) != 1 || got.TripContext.Destination[0] != "Đà Lạt" {
		t.Errorf("trip context = %+v", got.TripContext)
	}
}

func TestSendMessageTouchFailureTolerated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, deltaEvent("xong"))
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	store := &fakeStore{touchErr: errors.New("session gone")}
	client := newTestClient(server.URL, store)

	full, err := client.SendMessage(context.Background(), "sess-1", userMessages("hi"), nil, nil)
	if err != nil {
		t.Fatalf("touch failure must not fail the stream: %v", err)
	}
	if full != "xong" {
		t.Errorf("full text = %q", full)
	}
	if added := store.addedMessages(); len(added) != 1 {
		t.Errorf("message must still be persisted, got %d", len(added))
	}
}

func TestSendMessageAddMessageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, deltaEvent("xong"))
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	store := &fakeStore{addErr: errors.New("db down")}
	client := newTestClient(server.URL, store)

	if _, err := client.SendMessage(context.Background(), "sess-1", userMessages("hi"), nil, nil); err == nil {
		t.Fatal("expected persistence failure to surface")
	}
}
