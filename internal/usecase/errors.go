package usecase

import (
	"context"
	"fmt"
	"net/http"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
	ErrFeedBusy              = crerr.New("feed cycle already in flight")
)

// NetworkError covers transport failures, including per-call timeouts.
type NetworkError struct {
	Provider string
	Timeout  bool
	Cause    error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("provider %s: request timed out", e.Provider)
	}
	return fmt.Sprintf("provider %s: network error: %v", e.Provider, e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// InvalidResponseError is a non-2xx answer from a provider. Body is an
// excerpt for logs; it never reaches Error, which ends up in API responses.
type InvalidResponseError struct {
	Provider string
	Status   int
	Body     string
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("provider %s: unexpected status %d", e.Provider, e.Status)
}

// Retryable reports whether another attempt could succeed.
func (e *InvalidResponseError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

type EmptyPayloadError struct {
	Provider string
}

func (e *EmptyPayloadError) Error() string {
	return fmt.Sprintf("provider %s: empty payload", e.Provider)
}

// DecodeError reports a payload that does not match the expected schema.
// FieldPath is a JSON path such as games[2].scheduled, or $ for the document.
type DecodeError struct {
	Provider  string
	FieldPath string
	Cause     error
}

func (e *DecodeError) Error() string {
	path := e.FieldPath
	if path == "" {
		path = "$"
	}
	if e.Cause == nil {
		return fmt.Sprintf("provider %s: decode %s", e.Provider, path)
	}
	return fmt.Sprintf("provider %s: decode %s: %v", e.Provider, path, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// PartialAggregationFailure wraps the failure of one provider in an otherwise
// completed aggregation cycle.
type PartialAggregationFailure struct {
	Provider string
	Kind     ProviderKind
	Cause    error
}

func (e *PartialAggregationFailure) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Kind, e.Cause)
}

func (e *PartialAggregationFailure) Unwrap() error { return e.Cause }

// IsTransient reports failures worth counting against a circuit breaker.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var netErr *NetworkError
	if crerr.As(err, &netErr) {
		return true
	}
	var statusErr *InvalidResponseError
	if crerr.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	return false
}

// attributeError stamps the provider name on taxonomy errors and converts
// anything else into a NetworkError.
func attributeError(provider string, err error, timedOut bool) error {
	var (
		netErr    *NetworkError
		statusErr *InvalidResponseError
		emptyErr  *EmptyPayloadError
		decodeErr *DecodeError
	)
	switch {
	case crerr.As(err, &netErr):
		if netErr.Provider == "" {
			netErr.Provider = provider
		}
		netErr.Timeout = netErr.Timeout || timedOut
		return netErr
	case crerr.As(err, &statusErr):
		if statusErr.Provider == "" {
			statusErr.Provider = provider
		}
		return statusErr
	case crerr.As(err, &emptyErr):
		if emptyErr.Provider == "" {
			emptyErr.Provider = provider
		}
		return emptyErr
	case crerr.As(err, &decodeErr):
		if decodeErr.Provider == "" {
			decodeErr.Provider = provider
		}
		return decodeErr
	default:
		return &NetworkError{
			Provider: provider,
			Timeout:  timedOut || crerr.Is(err, context.DeadlineExceeded),
			Cause:    err,
		}
	}
}
