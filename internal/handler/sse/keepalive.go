package sse

import (
	"log/slog"
	"time"
)

// DefaultKeepAliveInterval keeps the stream alive through common proxy
// idle timeouts.
const DefaultKeepAliveInterval = 10 * time.Second

// KeepAliveWriter abstracts the keepalive write so the ticker can be tested
// without a real connection.
type KeepAliveWriter interface {
	WriteKeepAlive() error
}

// TickerKeepAlive sends keepalive pings at a fixed interval until stopped
// or until a write fails (connection dropped).
type TickerKeepAlive struct {
	interval time.Duration
	done     chan struct{}
}

// NewTickerKeepAlive creates a ticker-based keepalive.
func NewTickerKeepAlive(interval time.Duration) *TickerKeepAlive {
	return &TickerKeepAlive{
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins pinging. The returned channel closes when the keepalive
// loop terminates.
func (k *TickerKeepAlive) Start(writer KeepAliveWriter, logger *slog.Logger) <-chan struct{} {
	stopped := make(chan struct{})
	ticker := time.NewTicker(k.interval)

	go func() {
		defer close(stopped)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := writer.WriteKeepAlive(); err != nil {
					logger.Warn("keep-alive write failed, stopping", "error", err)
					return
				}
			case <-k.done:
				return
			}
		}
	}()

	return stopped
}

// Stop terminates the keepalive. Safe to call multiple times.
func (k *TickerKeepAlive) Stop() {
	select {
	case <-k.done:
	default:
		close(k.done)
	}
}
