package apisports

import (
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/hoops-feed/external/upstream"
	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

const (
	defaultBaseURL = "https://api-nba-v1.p.rapidapi.com"
	defaultHost    = "api-nba-v1.p.rapidapi.com"
	apiKeyHeader   = "x-rapidapi-key"
	hostHeader     = "x-rapidapi-host"
)

type liveEnvelope struct {
	Errors   any        `json:"errors"`
	Results  int        `json:"results"`
	Response []liveGame `json:"response" validate:"required,dive"`
}

type liveGame struct {
	ID      *int64       `json:"id"`
	Status  *liveStatus  `json:"status" validate:"required"`
	Periods *livePeriods `json:"periods" validate:"required"`
	Teams   *liveTeams   `json:"teams" validate:"required"`
	Scores  *liveScores  `json:"scores" validate:"required"`
}

type liveStatus struct {
	Clock    *string `json:"clock"`
	Halftime bool    `json:"halftime"`
	Long     *string `json:"long" validate:"required"`
}

type livePeriods struct {
	Current     *int `json:"current" validate:"required"`
	Total       int  `json:"total"`
	EndOfPeriod bool `json:"endOfPeriod"`
}

type liveTeams struct {
	Visitors *liveTeam `json:"visitors" validate:"required"`
	Home     *liveTeam `json:"home" validate:"required"`
}

type liveTeam struct {
	ID       int64   `json:"id"`
	Name     *string `json:"name" validate:"required"`
	Nickname string  `json:"nickname"`
	Code     string  `json:"code"`
}

type liveScores struct {
	Visitors *liveScore `json:"visitors" validate:"required"`
	Home     *liveScore `json:"home" validate:"required"`
}

type liveScore struct {
	Points *int `json:"points"`
}

// DecodeLiveScores parses the live games payload.
func DecodeLiveScores(raw []byte, contentType string) (usecase.ExternalLiveScores, error) {
	var envelope liveEnvelope
	if err := upstream.DecodeJSON(raw, contentType, &envelope); err != nil {
		return usecase.ExternalLiveScores{}, err
	}

	out := usecase.ExternalLiveScores{Games: make([]usecase.ExternalLiveGame, 0, len(envelope.Response))}
	for _, g := range envelope.Response {
		item := usecase.ExternalLiveGame{
			Home:       g.Teams.Home.external(),
			Away:       g.Teams.Visitors.external(),
			HomePoints: g.Scores.Home.Points,
			AwayPoints: g.Scores.Visitors.Points,
			Period:     *g.Periods.Current,
			Clock:      g.Status.Clock,
			StatusText: strings.TrimSpace(*g.Status.Long),
		}
		if g.ID != nil {
			item.ID = strconv.FormatInt(*g.ID, 10)
		}
		out.Games = append(out.Games, item)
	}
	return out, nil
}

func (t *liveTeam) external() usecase.ExternalTeamRef {
	return usecase.ExternalTeamRef{
		Name:     strings.TrimSpace(*t.Name),
		Nickname: strings.TrimSpace(t.Nickname),
		Alias:    strings.TrimSpace(t.Code),
	}
}

type Config struct {
	BaseURL    string
	APIKey     string
	Host       string
	Timeout    time.Duration
	MaxRetries int
}

// LiveDescriptor targets the games?live=all endpoint.
func LiveDescriptor(cfg Config) usecase.ProviderDescriptor {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = defaultHost
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return usecase.ProviderDescriptor{
		Kind:       usecase.KindLiveScores,
		Name:       "apisports-live",
		Endpoint:   baseURL + "/games",
		Query:      map[string]string{"live": "all"},
		AuthMode:   usecase.AuthHeader,
		AuthParam:  apiKeyHeader,
		APIKey:     cfg.APIKey,
		Headers:    map[string]string{hostHeader: host},
		Timeout:    timeout,
		MaxRetries: cfg.MaxRetries,
	}
}

func NewLiveProvider(cfg Config, fetcher usecase.Fetcher) usecase.Provider {
	return usecase.Provider{
		Descriptor: LiveDescriptor(cfg),
		Fetcher:    fetcher,
		Decode: func(raw usecase.RawPayload) (usecase.Decoded, error) {
			out, err := DecodeLiveScores(raw.Body, raw.ContentType)
			if err != nil {
				return usecase.Decoded{}, err
			}
			return usecase.Decoded{LiveScores: &out}, nil
		},
	}
}
