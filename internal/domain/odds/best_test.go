package odds

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestPrices(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 12, 0, 30, 0, 0, time.UTC)
	spread := decimal.RequireFromString("-4.5")
	quotes := []Quote{
		{
			GameKey: "2026-01-12:miami-heat@boston-celtics", CommenceTime: start, Bookmaker: "FanDuel", Market: MarketMoneyline,
			Outcomes: []Outcome{
				{Label: "Boston Celtics", Price: decimal.RequireFromString("1.45")},
				{Label: "Miami Heat", Price: decimal.RequireFromString("2.80")},
			},
		},
		{
			GameKey: "2026-01-12:miami-heat@boston-celtics", CommenceTime: start, Bookmaker: "DraftKings", Market: MarketMoneyline,
			Outcomes: []Outcome{
				{Label: "Boston Celtics", Price: decimal.RequireFromString("1.50")},
				{Label: "Miami Heat", Price: decimal.RequireFromString("2.70")},
			},
		},
		{
			GameKey: "2026-01-12:miami-heat@boston-celtics", CommenceTime: start, Bookmaker: "DraftKings", Market: MarketSpread,
			Outcomes: []Outcome{{Label: "Boston Celtics", Price: decimal.RequireFromString("1.91"), Point: &spread}},
		},
		{
			GameKey: "2026-01-11:utah-jazz@denver-nuggets", CommenceTime: start.Add(-24 * time.Hour), Bookmaker: "FanDuel", Market: MarketTotal,
			Outcomes: []Outcome{{Label: "Over", Price: decimal.RequireFromString("1.87")}},
		},
	}

	lines := BestPrices(quotes)
	require.Len(t, lines, 2)
	assert.Equal(t, "2026-01-11:utah-jazz@denver-nuggets", lines[0].GameKey)

	celtics := lines[1]
	assert.Equal(t, 2, celtics.Bookmakers)
	require.Len(t, celtics.Best, 3)
	assert.Equal(t, "DraftKings", celtics.Best[0].Bookmaker)
	assert.True(t, celtics.Best[0].Price.Equal(decimal.RequireFromString("1.50")))
	assert.Equal(t, "FanDuel", celtics.Best[1].Bookmaker)
	assert.True(t, celtics.Best[1].ImpliedProbability.Equal(decimal.RequireFromString("0.3571")))
}

func TestParseMarket(t *testing.T) {
	t.Parallel()

	for key, want := range map[string]MarketType{"h2h": MarketMoneyline, "spreads": MarketSpread, "totals": MarketTotal} {
		got, ok := ParseMarket(key)
		if !ok || got != want {
			t.Fatalf("expected market=%s for %s, got=%s ok=%v", want, key, got, ok)
		}
	}
	if _, ok := ParseMarket("outrights"); ok {
		t.Fatalf("expected unknown market to be rejected")
	}
}
