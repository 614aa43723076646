package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
)

// MockTransport implements sentry.Transport and keeps events in memory.
type MockTransport struct {
	mu     sync.RWMutex
	events []*sentry.Event
	closed bool
}

// NewMockTransport creates a new mock transport
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Configure implements sentry.Transport.
//
//nolint:gocritic // hugeParam: interface requirement, cannot change signature
func (t *MockTransport) Configure(_ sentry.ClientOptions) {}

// SendEvent implements sentry.Transport
func (t *MockTransport) SendEvent(event *sentry.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.events = append(t.events, event)
}

// Flush implements sentry.Transport
func (t *MockTransport) Flush(_ time.Duration) bool { return true }

// FlushWithContext implements sentry.Transport
func (t *MockTransport) FlushWithContext(ctx context.Context) bool {
	return ctx.Err() == nil
}

// Close implements sentry.Transport
func (t *MockTransport) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
}

// Events returns a copy of the captured events
func (t *MockTransport) Events() []*sentry.Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	events := make([]*sentry.Event, len(t.events))
	copy(events, t.events)
	return events
}

// WaitForEventCount waits for a specific number of events or timeout
func (t *MockTransport) WaitForEventCount(count int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		t.mu.RLock()
		n := len(t.events)
		t.mu.RUnlock()
		if n >= count {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
