package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

// scriptedServer answers with the queued status/body pairs in order and
// repeats the last one when the script runs out.
type scriptedServer struct {
	mu       sync.Mutex
	statuses []int
	bodies   []string
	calls    int
}

func (s *scriptedServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		i := s.calls
		if i >= len(s.statuses) {
			i = len(s.statuses) - 1
		}
		s.calls++
		status := s.statuses[i]
		body := s.bodies[i]
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func (s *scriptedServer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) (*Client, *[]time.Duration) {
	t.Helper()
	var slept []time.Duration
	c := New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, opts...)
	c.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return c, &slept
}

func TestRetrySchedule(t *testing.T) {
	script := &scriptedServer{
		statuses: []int{500, 500, 500, 200},
		bodies:   []string{`{}`, `{}`, `{}`, `{"ok":true}`},
	}
	srv := httptest.NewServer(script.handler())
	defer srv.Close()

	c, slept := newTestClient(t, srv)

	body, err := c.Get(context.Background(), "/things", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, 4, script.callCount())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, *slept)
}

func TestRetryExhaustedReturnsLastError(t *testing.T) {
	script := &scriptedServer{
		statuses: []int{503},
		bodies:   []string{`{"detail":"maintenance"}`},
	}
	srv := httptest.NewServer(script.handler())
	defer srv.Close()

	c, slept := newTestClient(t, srv)

	_, err := c.Get(context.Background(), "/things", nil)
	require.Error(t, err)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 503, apiErr.Status)
	assert.Equal(t, "maintenance", apiErr.Message)
	// initial attempt plus three retries
	assert.Equal(t, 4, script.callCount())
	assert.Len(t, *slept, 3)
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	for _, status := range []int{400, 404, 422, 429} {
		script := &scriptedServer{
			statuses: []int{status},
			bodies:   []string{`{}`},
		}
		srv := httptest.NewServer(script.handler())

		c, slept := newTestClient(t, srv)
		_, err := c.Get(context.Background(), "/things", nil)

		if err == nil {
			t.Fatalf("status %d: expected error", status)
		}
		if script.callCount() != 1 {
			t.Fatalf("status %d: got %d attempts, want 1", status, script.callCount())
		}
		if len(*slept) != 0 {
			t.Fatalf("status %d: unexpected backoff sleeps %v", status, *slept)
		}
		srv.Close()
	}
}

func TestEnvelopeUnwrap(t *testing.T) {
	script := &scriptedServer{
		statuses: []int{200},
		bodies:   []string{`{"success":true,"data":{"id":7,"name":"x"},"timestamp":"2026-01-01T00:00:00Z"}`},
	}
	srv := httptest.NewServer(script.handler())
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	body, err := c.Get(context.Background(), "/things/7", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"name":"x"}`, string(body))
}

func TestEnvelopeBusinessFailure(t *testing.T) {
	script := &scriptedServer{
		statuses: []int{200},
		bodies:   []string{`{"success":false,"error":{"code":"QUOTA_EXCEEDED","message":"monthly quota exhausted"}}`},
	}
	srv := httptest.NewServer(script.handler())
	defer srv.Close()

	c, slept := newTestClient(t, srv)
	_, err := c.Get(context.Background(), "/things", nil)
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "QUOTA_EXCEEDED", apiErr.Code)
	assert.Equal(t, "monthly quota exhausted", apiErr.Message)
	assert.Equal(t, 200, apiErr.Status)
	assert.Empty(t, *slept, "business failures must not be retried")
}

func TestUnauthorizedHookFires(t *testing.T) {
	script := &scriptedServer{
		statuses: []int{401},
		bodies:   []string{`{"detail":"token expired"}`},
	}
	srv := httptest.NewServer(script.handler())
	defer srv.Close()

	fired := 0
	c, slept := newTestClient(t, srv, WithUnauthorizedHook(func() { fired++ }))

	_, err := c.Get(context.Background(), "/auth/me", nil)
	require.Error(t, err)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 1, script.callCount(), "401 is terminal, never retried")
	assert.Empty(t, *slept)
}

func TestBearerAndMetadataHeaders(t *testing.T) {
	var gotAuth, gotVersion, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("X-Client-Version")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv, WithTokenProvider(staticToken("tok-123")))
	_, err := c.Get(context.Background(), "/things", nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, Version, gotVersion)
	assert.NotEmpty(t, gotRequestID)
}

func TestNetworkErrorNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c, slept := newTestClient(t, srv)
	_, err := c.Get(context.Background(), "/things", nil)
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeNetwork, apiErr.Code)
	assert.Equal(t, 0, apiErr.Status)
	assert.Len(t, *slept, 3, "network errors retry up to the cap")
}

func TestDownloadBypassesEnvelope(t *testing.T) {
	raw := "binary\x00payload"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(raw))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	body, err := c.Download(context.Background(), "/files/abc/download", nil)
	require.NoError(t, err)
	assert.Equal(t, raw, string(body))
}

func TestDecodeChaining(t *testing.T) {
	type thing struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	v, err := Decode[thing]([]byte(`{"id":3,"name":"a"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, thing{ID: 3, Name: "a"}, v)

	_, err = Decode[thing](nil, &APIError{Status: 404, Code: "NOT_FOUND", Message: "missing"})
	require.Error(t, err)

	empty, err := Decode[thing](nil, nil)
	require.NoError(t, err)
	assert.Equal(t, thing{}, empty)
}
