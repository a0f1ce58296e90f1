package app

import (
	"fmt"
	"time"

	"github.com/riskibarqy/hoops-feed/external/apisports"
	"github.com/riskibarqy/hoops-feed/external/oddsapi"
	"github.com/riskibarqy/hoops-feed/external/sportradar"
	"github.com/riskibarqy/hoops-feed/internal/config"
	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

const (
	FeedLive  = "live"
	FeedBoard = "board"
)

type feedPlan struct {
	name      string
	providers []usecase.Provider
}

// planFeeds groups the configured providers into feeds. A provider without an
// API key is left out, and a feed left with no providers is not scheduled.
func planFeeds(p config.Providers, fetcher usecase.Fetcher) ([]feedPlan, error) {
	var live []usecase.Provider
	if p.APISports.Enabled() {
		live = append(live, apisports.NewLiveProvider(apisports.Config{
			BaseURL:    p.APISports.BaseURL,
			APIKey:     p.APISports.APIKey,
			Host:       p.APISports.Host,
			Timeout:    p.APISports.Timeout,
			MaxRetries: p.APISports.MaxRetries,
		}, fetcher))
	}

	var board []usecase.Provider
	if p.Sportradar.Enabled() {
		srCfg := sportradar.Config{
			BaseURL:    p.Sportradar.BaseURL,
			APIKey:     p.Sportradar.APIKey,
			Locale:     p.Sportradar.Locale,
			SeasonYear: p.Sportradar.SeasonYear,
			SeasonType: p.Sportradar.SeasonType,
			Timeout:    p.Sportradar.Timeout,
			MaxRetries: p.Sportradar.MaxRetries,
		}
		board = append(board,
			sportradar.NewScheduleProvider(srCfg, fetcher),
			sportradar.NewStandingsProvider(srCfg, fetcher),
			sportradar.NewLeadersProvider(srCfg, fetcher),
		)
	}
	if p.OddsAPI.Enabled() {
		board = append(board, oddsapi.NewOddsProvider(oddsapi.Config{
			BaseURL:    p.OddsAPI.BaseURL,
			APIKey:     p.OddsAPI.APIKey,
			Sport:      p.OddsAPI.Sport,
			Regions:    p.OddsAPI.Regions,
			Markets:    p.OddsAPI.Markets,
			Timeout:    p.OddsAPI.Timeout,
			MaxRetries: p.OddsAPI.MaxRetries,
		}, fetcher))
	}

	plans := make([]feedPlan, 0, 2)
	if len(live) > 0 {
		plans = append(plans, feedPlan{name: FeedLive, providers: live})
	}
	if len(board) > 0 {
		plans = append(plans, feedPlan{name: FeedBoard, providers: board})
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("%w: no provider has an api key configured", usecase.ErrInvalidInput)
	}
	return plans, nil
}

func feedInterval(cfg config.Config, name string) time.Duration {
	if name == FeedLive {
		return cfg.LiveInterval
	}
	return cfg.BoardInterval
}
