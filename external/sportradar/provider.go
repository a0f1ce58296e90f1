package sportradar

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

const (
	defaultBaseURL    = "https://api.sportradar.us/nba/trial/v8"
	defaultLocale     = "en"
	defaultSeasonType = "REG"
	apiKeyParam       = "api_key"
)

type Config struct {
	BaseURL    string
	APIKey     string
	Locale     string
	SeasonYear int
	SeasonType string
	Timeout    time.Duration
	MaxRetries int
}

func (c Config) normalized() Config {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Locale == "" {
		c.Locale = defaultLocale
	}
	if c.SeasonType == "" {
		c.SeasonType = defaultSeasonType
	}
	if c.SeasonYear <= 0 {
		c.SeasonYear = seasonYear(time.Now().UTC())
	}
	if c.Timeout <= 0 {
		c.Timeout = 20 * time.Second
	}
	return c
}

// seasonYear is the starting year of the season in progress at now; a season
// starts in October.
func seasonYear(now time.Time) int {
	if now.Month() >= time.October {
		return now.Year()
	}
	return now.Year() - 1
}

func (c Config) descriptor(kind usecase.ProviderKind, name, path string) usecase.ProviderDescriptor {
	c = c.normalized()
	return usecase.ProviderDescriptor{
		Kind:       kind,
		Name:       name,
		Endpoint:   c.BaseURL + path,
		AuthMode:   usecase.AuthQuery,
		AuthParam:  apiKeyParam,
		APIKey:     c.APIKey,
		Timeout:    c.Timeout,
		MaxRetries: c.MaxRetries,
	}
}

func ScheduleDescriptor(cfg Config) usecase.ProviderDescriptor {
	cfg = cfg.normalized()
	path := fmt.Sprintf("/%s/games/%d/%s/schedule.json", cfg.Locale, cfg.SeasonYear, cfg.SeasonType)
	return cfg.descriptor(usecase.KindSchedule, "sportradar-schedule", path)
}

func StandingsDescriptor(cfg Config) usecase.ProviderDescriptor {
	cfg = cfg.normalized()
	path := fmt.Sprintf("/%s/seasons/%d/%s/standings.json", cfg.Locale, cfg.SeasonYear, cfg.SeasonType)
	return cfg.descriptor(usecase.KindStandings, "sportradar-standings", path)
}

func LeadersDescriptor(cfg Config) usecase.ProviderDescriptor {
	cfg = cfg.normalized()
	path := fmt.Sprintf("/%s/seasons/%d/%s/leaders.json", cfg.Locale, cfg.SeasonYear, cfg.SeasonType)
	return cfg.descriptor(usecase.KindLeaders, "sportradar-leaders", path)
}

func NewScheduleProvider(cfg Config, fetcher usecase.Fetcher) usecase.Provider {
	return usecase.Provider{
		Descriptor: ScheduleDescriptor(cfg),
		Fetcher:    fetcher,
		Decode: func(raw usecase.RawPayload) (usecase.Decoded, error) {
			out, err := DecodeSchedule(raw.Body, raw.ContentType)
			if err != nil {
				return usecase.Decoded{}, err
			}
			return usecase.Decoded{Schedule: &out}, nil
		},
	}
}

func NewStandingsProvider(cfg Config, fetcher usecase.Fetcher) usecase.Provider {
	return usecase.Provider{
		Descriptor: StandingsDescriptor(cfg),
		Fetcher:    fetcher,
		Decode: func(raw usecase.RawPayload) (usecase.Decoded, error) {
			out, err := DecodeStandings(raw.Body, raw.ContentType)
			if err != nil {
				return usecase.Decoded{}, err
			}
			return usecase.Decoded{Standings: &out}, nil
		},
	}
}

func NewLeadersProvider(cfg Config, fetcher usecase.Fetcher) usecase.Provider {
	return usecase.Provider{
		Descriptor: LeadersDescriptor(cfg),
		Fetcher:    fetcher,
		Decode: func(raw usecase.RawPayload) (usecase.Decoded, error) {
			out, err := DecodeLeaders(raw.Body, raw.ContentType)
			if err != nil {
				return usecase.Decoded{}, err
			}
			return usecase.Decoded{Leaders: &out}, nil
		},
	}
}
