package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/hoops-feed/internal/platform/resilience"
	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

func newTestClient(breaker resilience.CircuitBreakerConfig) *Client {
	return NewClient(ClientConfig{
		HTTPClient:     &http.Client{Timeout: 2 * time.Second},
		CircuitBreaker: breaker,
		RetryBackoff:   time.Millisecond,
	})
}

func descriptor(endpoint string) usecase.ProviderDescriptor {
	return usecase.ProviderDescriptor{
		Kind:      usecase.KindStandings,
		Name:      "sportradar-standings",
		Endpoint:  endpoint,
		AuthMode:  usecase.AuthQuery,
		AuthParam: "api_key",
		APIKey:    "super-secret",
		Timeout:   time.Second,
	}
}

func TestClientFetch_QueryAuth(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "super-secret", r.URL.Query().Get("api_key"))
		assert.Equal(t, "REG", r.URL.Query().Get("season"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	desc := descriptor(srv.URL + "/standings.json")
	desc.Query = map[string]string{"season": "REG"}

	payload, err := newTestClient(resilience.CircuitBreakerConfig{}).Fetch(context.Background(), desc)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, payload.Status)
	assert.Equal(t, "application/json", payload.ContentType)
	assert.JSONEq(t, `{"ok":true}`, string(payload.Body))
	assert.False(t, payload.FetchedAt.IsZero())
}

func TestClientFetch_HeaderAuth(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "live-key", r.Header.Get("x-rapidapi-key"))
		assert.Equal(t, "api-nba-v1.p.rapidapi.com", r.Header.Get("x-rapidapi-host"))
		assert.Empty(t, r.URL.Query().Get("x-rapidapi-key"))
		_, _ = w.Write([]byte(`{"response":[]}`))
	}))
	defer srv.Close()

	desc := usecase.ProviderDescriptor{
		Kind:      usecase.KindLiveScores,
		Name:      "apisports-live",
		Endpoint:  srv.URL + "/games",
		Query:     map[string]string{"live": "all"},
		AuthMode:  usecase.AuthHeader,
		AuthParam: "x-rapidapi-key",
		APIKey:    "live-key",
		Headers:   map[string]string{"x-rapidapi-host": "api-nba-v1.p.rapidapi.com"},
		Timeout:   time.Second,
	}

	_, err := newTestClient(resilience.CircuitBreakerConfig{}).Fetch(context.Background(), desc)
	require.NoError(t, err)
}

func TestClientFetch_StatusErrorRedactsSecret(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`bad key super-secret for ` + r.URL.String()))
	}))
	defer srv.Close()

	_, err := newTestClient(resilience.CircuitBreakerConfig{}).Fetch(context.Background(), descriptor(srv.URL))

	var statusErr *usecase.InvalidResponseError
	require.True(t, errors.As(err, &statusErr), "got %v", err)
	assert.Equal(t, http.StatusForbidden, statusErr.Status)
	assert.Equal(t, "sportradar-standings", statusErr.Provider)
	assert.NotContains(t, statusErr.Body, "super-secret")
	assert.Contains(t, statusErr.Body, "api_key=REDACTED")
	assert.NotContains(t, statusErr.Error(), "bad key")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx must not be retried")
}

func TestClientFetch_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	desc := descriptor(srv.URL)
	desc.MaxRetries = 2

	_, err := newTestClient(resilience.CircuitBreakerConfig{}).Fetch(context.Background(), desc)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClientFetch_EmptyBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("  \n"))
	}))
	defer srv.Close()

	_, err := newTestClient(resilience.CircuitBreakerConfig{}).Fetch(context.Background(), descriptor(srv.URL))

	var emptyErr *usecase.EmptyPayloadError
	require.True(t, errors.As(err, &emptyErr), "got %v", err)
	assert.Equal(t, "sportradar-standings", emptyErr.Provider)
}

func TestClientFetch_TimeoutIsNetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := newTestClient(resilience.CircuitBreakerConfig{}).Fetch(ctx, descriptor(srv.URL))

	var netErr *usecase.NetworkError
	require.True(t, errors.As(err, &netErr), "got %v", err)
	assert.True(t, netErr.Timeout)
	assert.NotContains(t, netErr.Error(), "super-secret")
}

func TestClientFetch_BreakerOpensPerProvider(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if strings.HasSuffix(r.URL.Path, "/healthy") {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
	})

	failing := descriptor(srv.URL + "/failing")
	for i := 0; i < 2; i++ {
		_, err := client.Fetch(context.Background(), failing)
		var statusErr *usecase.InvalidResponseError
		require.True(t, errors.As(err, &statusErr))
	}

	_, err := client.Fetch(context.Background(), failing)
	var netErr *usecase.NetworkError
	require.True(t, errors.As(err, &netErr), "got %v", err)
	assert.True(t, errors.Is(err, usecase.ErrDependencyUnavailable))
	assert.True(t, errors.Is(err, resilience.ErrCircuitOpen))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	healthy := descriptor(srv.URL + "/healthy")
	healthy.Name = "oddsapi"
	_, err = client.Fetch(context.Background(), healthy)
	require.NoError(t, err)
}

func TestBuildURLAndRedaction(t *testing.T) {
	t.Parallel()

	desc := descriptor("https://api.sportradar.us/nba/trial/v8/en/seasons/2025/REG/standings.json")
	full, err := buildURL(desc)
	require.NoError(t, err)
	assert.Contains(t, full, "api_key=super-secret")
	assert.NotContains(t, redactURL(full, desc), "super-secret")

	assert.Equal(t, "apiKey=REDACTED&x=1", sanitizeSensitiveText("apiKey=abc&x=1", ""))
	assert.Equal(t, strings.Repeat("a", 240)+"...", abbreviateBody([]byte(strings.Repeat("a", 300))))
}

func TestAbbreviateBody_RuneBoundary(t *testing.T) {
	t.Parallel()

	// 239 ASCII bytes put the 2-byte "é" across the 240 byte limit.
	body := strings.Repeat("a", 239) + strings.Repeat("é", 10)
	got := abbreviateBody([]byte(body))

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 239)+"...", got)

	assert.True(t, utf8.ValidString(abbreviateBody([]byte{'{', 0xff, 0xfe, '}'})))
	assert.Equal(t, "short", abbreviateBody([]byte("  short \n")))
}
