package oddsapi

import (
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/hoops-feed/external/upstream"
	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

const (
	defaultBaseURL = "https://api.the-odds-api.com/v4"
	defaultSport   = "basketball_nba"
)

type event struct {
	ID           *string     `json:"id" validate:"required"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime *string     `json:"commence_time" validate:"required"`
	HomeTeam     *string     `json:"home_team" validate:"required"`
	AwayTeam     *string     `json:"away_team" validate:"required"`
	Bookmakers   []bookmaker `json:"bookmakers" validate:"dive"`
}

type bookmaker struct {
	Key     string   `json:"key"`
	Title   *string  `json:"title" validate:"required"`
	Markets []market `json:"markets" validate:"dive"`
}

type market struct {
	Key      *string   `json:"key" validate:"required"`
	Outcomes []outcome `json:"outcomes" validate:"dive"`
}

type outcome struct {
	Name  *string          `json:"name" validate:"required"`
	Price *decimal.Decimal `json:"price" validate:"required"`
	Point *decimal.Decimal `json:"point"`
}

// DecodeOdds parses the event odds array. Prices are decimal odds and must be
// positive.
func DecodeOdds(raw []byte, contentType string) (usecase.ExternalOdds, error) {
	var events []event
	if err := upstream.DecodeJSON(raw, contentType, &events); err != nil {
		return usecase.ExternalOdds{}, err
	}

	out := usecase.ExternalOdds{Events: make([]usecase.ExternalOddsEvent, 0, len(events))}
	for i, e := range events {
		commence, err := upstream.ParseTime(*e.CommenceTime, fmt.Sprintf("[%d].commence_time", i))
		if err != nil {
			return usecase.ExternalOdds{}, err
		}

		item := usecase.ExternalOddsEvent{
			ID:           strings.TrimSpace(*e.ID),
			HomeTeam:     strings.TrimSpace(*e.HomeTeam),
			AwayTeam:     strings.TrimSpace(*e.AwayTeam),
			CommenceTime: commence,
			Bookmakers:   make([]usecase.ExternalBookmaker, 0, len(e.Bookmakers)),
		}
		for j, b := range e.Bookmakers {
			book := usecase.ExternalBookmaker{Title: strings.TrimSpace(*b.Title)}
			for k, m := range b.Markets {
				mk := usecase.ExternalOddsMarket{Key: strings.TrimSpace(*m.Key)}
				for l, o := range m.Outcomes {
					if !o.Price.IsPositive() {
						return usecase.ExternalOdds{}, &usecase.DecodeError{
							FieldPath: fmt.Sprintf("[%d].bookmakers[%d].markets[%d].outcomes[%d].price", i, j, k, l),
							Cause:     crerr.Newf("price %s is not positive", o.Price.String()),
						}
					}
					mk.Outcomes = append(mk.Outcomes, usecase.ExternalOddsOutcome{
						Name:  strings.TrimSpace(*o.Name),
						Price: *o.Price,
						Point: o.Point,
					})
				}
				book.Markets = append(book.Markets, mk)
			}
			item.Bookmakers = append(item.Bookmakers, book)
		}
		out.Events = append(out.Events, item)
	}
	return out, nil
}

type Config struct {
	BaseURL    string
	APIKey     string
	Sport      string
	Regions    string
	Markets    string
	Timeout    time.Duration
	MaxRetries int
}

// OddsDescriptor targets /sports/{sport}/odds with decimal prices.
func OddsDescriptor(cfg Config) usecase.ProviderDescriptor {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	sport := strings.TrimSpace(cfg.Sport)
	if sport == "" {
		sport = defaultSport
	}
	regions := strings.TrimSpace(cfg.Regions)
	if regions == "" {
		regions = "us"
	}
	markets := strings.TrimSpace(cfg.Markets)
	if markets == "" {
		markets = "h2h,spreads,totals"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return usecase.ProviderDescriptor{
		Kind:     usecase.KindOdds,
		Name:     "oddsapi",
		Endpoint: fmt.Sprintf("%s/sports/%s/odds", baseURL, sport),
		Query: map[string]string{
			"regions":    regions,
			"markets":    markets,
			"oddsFormat": "decimal",
		},
		AuthMode:   usecase.AuthQuery,
		AuthParam:  "apiKey",
		APIKey:     cfg.APIKey,
		Timeout:    timeout,
		MaxRetries: cfg.MaxRetries,
	}
}

func NewOddsProvider(cfg Config, fetcher usecase.Fetcher) usecase.Provider {
	return usecase.Provider{
		Descriptor: OddsDescriptor(cfg),
		Fetcher:    fetcher,
		Decode: func(raw usecase.RawPayload) (usecase.Decoded, error) {
			out, err := DecodeOdds(raw.Body, raw.ContentType)
			if err != nil {
				return usecase.Decoded{}, err
			}
			return usecase.Decoded{Odds: &out}, nil
		},
	}
}
