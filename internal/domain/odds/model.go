package odds

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/hoops-feed/internal/domain/team"
)

type MarketType string

const (
	MarketMoneyline MarketType = "moneyline"
	MarketSpread    MarketType = "spread"
	MarketTotal     MarketType = "total"
)

// ParseMarket maps a provider market key (h2h, spreads, totals) onto MarketType.
func ParseMarket(key string) (MarketType, bool) {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "h2h", "moneyline":
		return MarketMoneyline, true
	case "spreads", "spread":
		return MarketSpread, true
	case "totals", "total":
		return MarketTotal, true
	default:
		return "", false
	}
}

type Outcome struct {
	Label string           `json:"label"`
	Price decimal.Decimal  `json:"price"`
	Point *decimal.Decimal `json:"point,omitempty"`
}

// Quote is one bookmaker's prices for one market of one game.
type Quote struct {
	EventID      string     `json:"event_id"`
	GameKey      string     `json:"game_key"`
	Home         team.Team  `json:"home"`
	Away         team.Team  `json:"away"`
	CommenceTime time.Time  `json:"commence_time"`
	Bookmaker    string     `json:"bookmaker"`
	Market       MarketType `json:"market"`
	Outcomes     []Outcome  `json:"outcomes"`
}

// ImpliedProbability converts a decimal price into its implied probability.
func ImpliedProbability(price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).DivRound(price, 4)
}
