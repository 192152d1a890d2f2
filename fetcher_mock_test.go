package flaglite

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

// mockFetcher is a mock implementation of flagFetcher for testing. Call
// recording is guarded by a mutex so the mock can stand in for the real
// fetcher under concurrent evaluations.
type mockFetcher struct {
	// FetchFunc is called when FetchFlag is called.
	// If nil, FetchFlag returns a 200 response with an empty JSON body.
	FetchFunc func(ctx context.Context, flagKey, userID string) (*flagResponse, error)

	// mu guards the recorded state below.
	mu sync.Mutex
	// fetchCalls tracks all calls to FetchFlag.
	fetchCalls []mockFetchCall
	// closeCalled tracks how many times Close was called.
	closeCalled int
}

// mockFetchCall records the arguments to a FetchFlag call.
type mockFetchCall struct {
	FlagKey string
	UserID  string
}

// FetchFlag implements flagFetcher.
func (m *mockFetcher) FetchFlag(ctx context.Context, flagKey, userID string) (*flagResponse, error) {
	m.mu.Lock()
	m.fetchCalls = append(m.fetchCalls, mockFetchCall{
		FlagKey: flagKey,
		UserID:  userID,
	})
	m.mu.Unlock()
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, flagKey, userID)
	}
	return &flagResponse{StatusCode: http.StatusOK, Body: []byte(`{}`), Header: http.Header{}}, nil
}

// Close implements flagFetcher.
func (m *mockFetcher) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalled++
}

// calls returns a snapshot of the recorded FetchFlag calls.
func (m *mockFetcher) calls() []mockFetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mockFetchCall(nil), m.fetchCalls...)
}

// Verify mockFetcher implements flagFetcher.
var _ flagFetcher = (*mockFetcher)(nil)

// Common error for testing.
var errMockTransport = errors.New("mock transport error")

// Helper to build a canned response with the given status and body.
func makeResponse(status int, body string) *flagResponse {
	return &flagResponse{
		StatusCode: status,
		Body:       []byte(body),
		Header:     http.Header{},
	}
}

// Helper returning a fetch func that always yields the same response.
func respondWith(status int, body string) func(context.Context, string, string) (*flagResponse, error) {
	return func(context.Context, string, string) (*flagResponse, error) {
		return makeResponse(status, body), nil
	}
}
