package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMockLatency is the simulated round trip of the mock backend.
const DefaultMockLatency = 100 * time.Millisecond

// MockBackend simulates the user API in process. It records every payload it
// receives and can be told to fail.
type MockBackend struct {
	latency time.Duration

	mu    sync.Mutex
	fail  error
	calls []Payload
}

// NewMockBackend creates a mock that answers after latency.
func NewMockBackend(latency time.Duration) *MockBackend {
	return &MockBackend{latency: latency}
}

// FailWith makes subsequent calls return err. Pass nil to succeed again.
func (m *MockBackend) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

// Calls returns the payloads received so far.
func (m *MockBackend) Calls() []Payload {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Payload, len(m.calls))
	copy(out, m.calls)
	return out
}

// Submit implements Backend.
func (m *MockBackend) Submit(ctx context.Context, payload Payload) (Ack, error) {
	if m.latency > 0 {
		timer := time.NewTimer(m.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Ack{}, &TransportError{Message: FailureMessage, Cause: ctx.Err()}
		case <-timer.C:
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, payload)
	if m.fail != nil {
		return Ack{}, m.fail
	}
	return Ack{ID: uuid.NewString()}, nil
}

// HTTPBackend posts payloads to a user API exposing POST /api/users.
type HTTPBackend struct {
	endpoint string
	client   *http.Client
}

// NewHTTPBackend creates a backend for the API rooted at baseURL.
func NewHTTPBackend(baseURL string, timeout time.Duration) *HTTPBackend {
	return &HTTPBackend{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/users",
		client:   &http.Client{Timeout: timeout},
	}
}

// Submit implements Backend. Only 201 Created counts as success.
func (b *HTTPBackend) Submit(ctx context.Context, payload Payload) (Ack, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Ack{}, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return Ack{}, &TransportError{Message: FailureMessage, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return Ack{}, &TransportError{Message: FailureMessage, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return Ack{}, &TransportError{Message: FailureMessage, StatusCode: resp.StatusCode}
	}

	var ack Ack
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return Ack{}, &TransportError{Message: FailureMessage, StatusCode: resp.StatusCode, Cause: err}
	}
	return ack, nil
}
