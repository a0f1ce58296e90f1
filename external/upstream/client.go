package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/hoops-feed/internal/platform/logging"
	"github.com/riskibarqy/hoops-feed/internal/platform/resilience"
	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

const maxBodyBytes = 6 << 20

var secretParamRegex = regexp.MustCompile(`(api_key|apiKey|api_token)=[^&\s"']+`)

type ClientConfig struct {
	HTTPClient     *http.Client
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	// RetryBackoff is the base delay between attempts; attempt n waits n*RetryBackoff.
	RetryBackoff time.Duration
}

// Client fetches provider payloads over HTTP. One circuit breaker is kept per
// provider name, and identical in-flight requests are collapsed.
type Client struct {
	httpClient   *http.Client
	logger       *logging.Logger
	breakerCfg   resilience.CircuitBreakerConfig
	retryBackoff time.Duration
	flight       resilience.Flight[usecase.RawPayload]

	mu       sync.Mutex
	breakers map[string]*resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	return &Client{
		httpClient:   httpClient,
		logger:       logger,
		breakerCfg:   cfg.CircuitBreaker,
		retryBackoff: backoff,
		breakers:     make(map[string]*resilience.CircuitBreaker),
	}
}

func (c *Client) Fetch(ctx context.Context, desc usecase.ProviderDescriptor) (usecase.RawPayload, error) {
	breaker := c.breaker(desc.Name)
	if breaker != nil {
		if err := breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "upstream circuit breaker rejected request", "provider", desc.Name, "state", breaker.State())
			return usecase.RawPayload{}, &usecase.NetworkError{
				Provider: desc.Name,
				Cause:    fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, err),
			}
		}
	}

	fullURL, err := buildURL(desc)
	if err != nil {
		return usecase.RawPayload{}, err
	}

	payload, err, _ := c.flight.Do(desc.Name+" "+fullURL, func() (usecase.RawPayload, error) {
		payload, reqErr := c.executeRequest(ctx, desc, fullURL)
		if breaker != nil {
			if usecase.IsTransient(reqErr) {
				breaker.RecordFailure()
			} else {
				breaker.RecordSuccess()
			}
		}
		return payload, reqErr
	})
	if err != nil {
		return usecase.RawPayload{}, err
	}
	return payload, nil
}

func (c *Client) breaker(provider string) *resilience.CircuitBreaker {
	if !c.breakerCfg.Enabled {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.breakers[provider]
	if !ok {
		b = resilience.NewCircuitBreaker(provider, c.breakerCfg)
		c.breakers[provider] = b
	}
	return b
}

func (c *Client) executeRequest(ctx context.Context, desc usecase.ProviderDescriptor, fullURL string) (usecase.RawPayload, error) {
	var lastErr error
	for attempt := 0; attempt <= desc.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return usecase.RawPayload{}, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		for key, value := range desc.Headers {
			req.Header.Set(key, value)
		}
		if desc.AuthMode == usecase.AuthHeader && desc.APIKey != "" {
			req.Header.Set(desc.AuthParam, desc.APIKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = &usecase.NetworkError{
				Provider: desc.Name,
				Timeout:  crerr.Is(err, context.DeadlineExceeded),
				Cause:    crerr.New(sanitizeSensitiveText(err.Error(), desc.APIKey)),
			}
			if ctx.Err() != nil {
				break
			}
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = &usecase.NetworkError{Provider: desc.Name, Cause: fmt.Errorf("read response body: %w", readErr)}
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				if len(strings.TrimSpace(string(raw))) == 0 {
					return usecase.RawPayload{}, &usecase.EmptyPayloadError{Provider: desc.Name}
				}
				return usecase.RawPayload{
					Body:        raw,
					ContentType: resp.Header.Get("Content-Type"),
					Status:      resp.StatusCode,
					FetchedAt:   time.Now().UTC(),
				}, nil
			default:
				statusErr := &usecase.InvalidResponseError{
					Provider: desc.Name,
					Status:   resp.StatusCode,
					Body:     sanitizeSensitiveText(abbreviateBody(raw), desc.APIKey),
				}
				lastErr = statusErr
				c.logger.WarnContext(ctx, "upstream returned non-2xx",
					"provider", desc.Name,
					"status", resp.StatusCode,
					"attempt", attempt+1,
					"body", statusErr.Body,
				)
				if !statusErr.Retryable() {
					return usecase.RawPayload{}, lastErr
				}
			}
		}

		if attempt == desc.MaxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return usecase.RawPayload{}, &usecase.NetworkError{
				Provider: desc.Name,
				Timeout:  crerr.Is(ctx.Err(), context.DeadlineExceeded),
				Cause:    ctx.Err(),
			}
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = &usecase.NetworkError{Provider: desc.Name, Cause: crerr.New("provider request failed")}
	}
	c.logger.WarnContext(ctx, "upstream request failed", "provider", desc.Name, "url", redactURL(fullURL, desc), "error", lastErr)
	return usecase.RawPayload{}, lastErr
}

func buildURL(desc usecase.ProviderDescriptor) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(desc.Endpoint))
	if err != nil {
		return "", fmt.Errorf("%w: parse endpoint for %s: %w", usecase.ErrInvalidInput, desc.Name, err)
	}

	values := parsed.Query()
	for key, value := range desc.Query {
		values.Set(key, value)
	}
	if desc.AuthMode == usecase.AuthQuery && desc.APIKey != "" {
		values.Set(desc.AuthParam, desc.APIKey)
	}
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}

func sanitizeSensitiveText(value, secret string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if secret != "" {
		value = strings.ReplaceAll(value, secret, "REDACTED")
	}
	return secretParamRegex.ReplaceAllString(value, "$1=REDACTED")
}

func redactURL(rawURL string, desc usecase.ProviderDescriptor) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return sanitizeSensitiveText(rawURL, desc.APIKey)
	}
	query := parsed.Query()
	if desc.AuthMode == usecase.AuthQuery && query.Has(desc.AuthParam) {
		query.Set(desc.AuthParam, "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

const maxBodyExcerpt = 240

// abbreviateBody keeps at most maxBodyExcerpt bytes of body, cut on a rune
// boundary.
func abbreviateBody(body []byte) string {
	text := strings.ToValidUTF8(strings.TrimSpace(string(body)), "\uFFFD")
	if len(text) <= maxBodyExcerpt {
		return text
	}
	cut := maxBodyExcerpt
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
