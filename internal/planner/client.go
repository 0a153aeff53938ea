package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
)

// Config holds the AI gateway settings. Injected explicitly so tests can
// point the client at a mock endpoint.
type Config struct {
	GatewayURL  string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// MessageStore is the persistence collaborator the client calls when a
// stream completes. The two writes are independent and non-transactional:
// a failed TouchSession after a successful AddMessage is tolerated.
type MessageStore interface {
	AddMessage(ctx context.Context, sessionID, role, content string) error
	TouchSession(ctx context.Context, sessionID string) error
}

// DeltaFunc receives the accumulated text after every decoded content
// delta. The text grows monotonically; it is never rewritten.
type DeltaFunc func(partial string)

// Client drives one streamed request/response cycle against the AI gateway.
// At most one stream may be active per client; concurrent SendMessage calls
// are rejected with ErrStreamActive.
type Client struct {
	cfg        Config
	httpClient *http.Client
	store      MessageStore
	logger     *slog.Logger
	active     atomic.Bool
}

// NewClient creates a streaming chat client.
func NewClient(cfg Config, store MessageStore, logger *slog.Logger) *Client {
	return &Client{
		cfg: cfg,
		// No client timeout: streams are long-lived. Cancellation comes
		// from the request context.
		httpClient: &http.Client{},
		store:      store,
		logger:     logger,
	}
}

// chatRequest is the outbound gateway body. TripContext rides along
// verbatim; the grounded system prompt is prepended to the messages.
type chatRequest struct {
	Model       string       `json:"model"`
	Messages    []Message    `json:"messages"`
	TripContext *TripContext `json:"tripContext,omitempty"`
	Stream      bool         `json:"stream"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens"`
}

// completionChunk is the typed envelope for one SSE data payload. The delta
// path is choices[0].delta.content; an absent field is not an error, just
// "no content this event".
type completionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func (c *completionChunk) deltaContent() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Delta.Content
}

// gatewayError is the diagnostic body some non-2xx responses carry.
type gatewayError struct {
	Error string `json:"error"`
}

// SendMessage runs one streamed completion for the given conversation.
// Decoded deltas are appended to an accumulated buffer and surfaced through
// onDelta (may be nil); on normal completion the full text is persisted as
// an assistant message on sessionID and returned. On any error nothing is
// persisted. Cancelling ctx aborts the transport read.
func (c *Client) SendMessage(ctx context.Context, sessionID string, messages []Message, trip *TripContext, onDelta DeltaFunc) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("conversation must contain at least one message")
	}
	if !c.active.CompareAndSwap(false, true) {
		return "", ErrStreamActive
	}
	defer c.active.Store(false)

	outbound := make([]Message, 0, len(messages)+1)
	outbound = append(outbound, Message{Role: "system", Content: buildSystemPrompt(trip)})
	outbound = append(outbound, messages...)

	payload, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    outbound,
		TripContext: trip,
		Stream:      true,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GatewayURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &RateLimitError{Detail: readErrorDetail(resp.Body)}
	case resp.StatusCode == http.StatusPaymentRequired:
		return "", &PaymentRequiredError{Detail: readErrorDetail(resp.Body)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", &UpstreamError{StatusCode: resp.StatusCode, Detail: readErrorDetail(resp.Body)}
	}

	full, err := c.readStream(resp.Body, onDelta)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		// Cancelled between last read and here: treat as aborted, persist nothing.
		return "", &StreamDecodeError{Err: err}
	}

	if err := c.store.AddMessage(ctx, sessionID, "assistant", full); err != nil {
		return "", fmt.Errorf("persist assistant message: %w", err)
	}
	if err := c.store.TouchSession(ctx, sessionID); err != nil {
		// The message itself is saved; a stale session timestamp is tolerated.
		c.logger.Warn("touch session failed after stream",
			"session_id", sessionID,
			"error", err,
		)
	}

	c.logger.Debug("stream completed",
		"session_id", sessionID,
		"chars", len(full),
	)
	return full, nil
}

// readStream decodes the SSE byte stream into accumulated text.
//
// Framing: newline-delimited lines; `:` lines are comments, only `data: `
// lines carry payloads, `data: [DONE]` ends the stream. Bytes are buffered
// until a full line arrives, so chunk boundaries inside multi-byte UTF-8
// sequences are harmless. A data line whose JSON does not parse yet is
// pushed back and retried once more bytes arrive, so a payload split
// across network chunks loses no content.
func (c *Client) readStream(body io.Reader, onDelta DeltaFunc) (string, error) {
	var (
		full    strings.Builder
		pending []byte // undecoded bytes, may end mid-line
		chunk   = make([]byte, 4096)
	)

	for {
		n, readErr := body.Read(chunk)
		if n > 0 {
			pending = append(pending, chunk[:n]...)

			done, rest := drainLines(pending, &full, onDelta)
			pending = rest
			if done {
				return full.String(), nil
			}
		}
		if readErr == io.EOF {
			// Upstream ended without [DONE]; keep what arrived.
			return full.String(), nil
		}
		if readErr != nil {
			return "", &StreamDecodeError{Err: readErr}
		}
	}
}

var dataPrefix = []byte("data: ")

// drainLines consumes complete lines from buf, appending decoded deltas to
// full. It returns done=true on the [DONE] sentinel; rest holds the bytes
// still waiting for more input (including any pushed-back line).
func drainLines(buf []byte, full *strings.Builder, onDelta DeltaFunc) (done bool, rest []byte) {
	for {
		idx := bytes.IndexByte(buf, '\n')
		if idx < 0 {
			return false, buf
		}
		line := buf[:idx]
		buf = buf[idx+1:]

		line = bytes.TrimSuffix(line, []byte("\r"))
		if len(bytes.TrimSpace(line)) == 0 || line[0] == ':' {
			continue
		}
		if !bytes.HasPrefix(line, dataPrefix) {
			continue
		}

		payload := bytes.TrimSpace(line[len(dataPrefix):])
		if string(payload) == "[DONE]" {
			// Normal termination: ignore anything after the sentinel.
			return true, nil
		}

		var chunk completionChunk
		if err := json.Unmarshal(payload, &chunk); err != nil {
			// Incomplete JSON, usually a payload split across network
			// chunks. Push the line back and wait for more bytes.
			restored := make([]byte, 0, len(line)+1+len(buf))
			restored = append(restored, line...)
			restored = append(restored, '\n')
			restored = append(restored, buf...)
			return false, restored
		}

		if delta := chunk.deltaContent(); delta != "" {
			full.WriteString(delta)
			if onDelta != nil {
				onDelta(full.String())
			}
		}
	}
}

// readErrorDetail extracts the optional `{"error": "..."}` diagnostic from
// a non-2xx body. Best effort; bodies are small.
func readErrorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var ge gatewayError
	if err := json.Unmarshal(data, &ge); err != nil {
		return ""
	}
	return ge.Error
}
