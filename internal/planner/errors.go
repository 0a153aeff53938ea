package planner

import (
	"errors"
	"fmt"
)

// ErrStreamActive is returned when SendMessage is called while another
// stream is still in flight on the same client. Concurrent streams per
// client are rejected rather than queued.
var ErrStreamActive = errors.New("a chat stream is already active")

// RateLimitError signals an upstream HTTP 429. Not retried automatically;
// the caller should suggest trying again later.
type RateLimitError struct {
	Detail string
}

func (e *RateLimitError) Error() string {
	if e.Detail != "" {
		return "ai gateway rate limit exceeded: " + e.Detail
	}
	return "ai gateway rate limit exceeded"
}

// PaymentRequiredError signals an upstream HTTP 402. Terminal.
type PaymentRequiredError struct {
	Detail string
}

func (e *PaymentRequiredError) Error() string {
	if e.Detail != "" {
		return "ai gateway payment required: " + e.Detail
	}
	return "ai gateway payment required"
}

// UpstreamError covers every other non-2xx or transport-level failure
// before the stream starts. StatusCode is 0 when the request never got a
// response.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return "ai gateway unreachable: " + e.Detail
	}
	if e.Detail != "" {
		return fmt.Sprintf("ai gateway error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("ai gateway error (status %d)", e.StatusCode)
}

// StreamDecodeError wraps a transport failure while reading the event
// stream after a successful initial response. Partial text already observed
// by the caller is not persisted.
type StreamDecodeError struct {
	Err error
}

func (e *StreamDecodeError) Error() string {
	return "ai stream read failed: " + e.Err.Error()
}

func (e *StreamDecodeError) Unwrap() error {
	return e.Err
}
