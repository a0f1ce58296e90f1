package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type ProviderKind string

const (
	KindSchedule   ProviderKind = "schedule"
	KindStandings  ProviderKind = "standings"
	KindLeaders    ProviderKind = "leaders"
	KindLiveScores ProviderKind = "live_scores"
	KindOdds       ProviderKind = "odds"
)

func ParseProviderKind(value string) (ProviderKind, error) {
	switch kind := ProviderKind(strings.ToLower(strings.TrimSpace(value))); kind {
	case KindSchedule, KindStandings, KindLeaders, KindLiveScores, KindOdds:
		return kind, nil
	case "live", "livescores":
		return KindLiveScores, nil
	default:
		return "", fmt.Errorf("%w: unknown provider kind %q", ErrInvalidInput, value)
	}
}

type AuthMode string

const (
	AuthQuery  AuthMode = "query"
	AuthHeader AuthMode = "header"
)

// ProviderDescriptor is everything needed to call one upstream endpoint.
type ProviderDescriptor struct {
	Kind       ProviderKind
	Name       string
	Endpoint   string
	Query      map[string]string
	AuthMode   AuthMode
	AuthParam  string
	APIKey     string
	Headers    map[string]string
	Timeout    time.Duration
	MaxRetries int
}

func (d ProviderDescriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: provider name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(d.Endpoint) == "" {
		return fmt.Errorf("%w: provider %s endpoint is required", ErrInvalidInput, d.Name)
	}
	if d.Timeout <= 0 {
		return fmt.Errorf("%w: provider %s timeout must be > 0", ErrInvalidInput, d.Name)
	}
	if d.MaxRetries < 0 {
		return fmt.Errorf("%w: provider %s max retries must be >= 0", ErrInvalidInput, d.Name)
	}
	switch d.AuthMode {
	case AuthQuery, AuthHeader:
		if strings.TrimSpace(d.AuthParam) == "" {
			return fmt.Errorf("%w: provider %s auth param is required", ErrInvalidInput, d.Name)
		}
	case "":
	default:
		return fmt.Errorf("%w: provider %s has unknown auth mode %q", ErrInvalidInput, d.Name, d.AuthMode)
	}
	return nil
}

// RawPayload is an undecoded provider response.
type RawPayload struct {
	Body        []byte
	ContentType string
	Status      int
	FetchedAt   time.Time
}

type Fetcher interface {
	Fetch(ctx context.Context, desc ProviderDescriptor) (RawPayload, error)
}

// Decoded holds the output of exactly one decoder; the field matching the
// provider kind is set.
type Decoded struct {
	Schedule   *ExternalSchedule
	Standings  *ExternalStandings
	Leaders    *ExternalLeaders
	LiveScores *ExternalLiveScores
	Odds       *ExternalOdds
}

type DecodeFunc func(RawPayload) (Decoded, error)

type Provider struct {
	Descriptor ProviderDescriptor
	Fetcher    Fetcher
	Decode     DecodeFunc
}

func (p Provider) Validate() error {
	if err := p.Descriptor.Validate(); err != nil {
		return err
	}
	if p.Fetcher == nil {
		return fmt.Errorf("%w: provider %s has no fetcher", ErrInvalidInput, p.Descriptor.Name)
	}
	if p.Decode == nil {
		return fmt.Errorf("%w: provider %s has no decoder", ErrInvalidInput, p.Descriptor.Name)
	}
	return nil
}
