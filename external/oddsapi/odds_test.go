package oddsapi

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

const oddsPayload = `[
  {
    "id": "e912304de2b2ce35b473ce2ecd3d1502",
    "sport_key": "basketball_nba",
    "sport_title": "NBA",
    "commence_time": "2026-01-12T00:30:00Z",
    "home_team": "Boston Celtics",
    "away_team": "Atlanta Hawks",
    "bookmakers": [
      {
        "key": "draftkings",
        "title": "DraftKings",
        "markets": [
          {"key": "h2h", "outcomes": [
            {"name": "Boston Celtics", "price": 1.45},
            {"name": "Atlanta Hawks", "price": 2.80}
          ]},
          {"key": "spreads", "outcomes": [
            {"name": "Boston Celtics", "price": 1.91, "point": -6.5},
            {"name": "Atlanta Hawks", "price": 1.91, "point": 6.5}
          ]}
        ]
      }
    ]
  }
]`

func TestDecodeOdds(t *testing.T) {
	t.Parallel()

	got, err := DecodeOdds([]byte(oddsPayload), "application/json; charset=utf-8")
	require.NoError(t, err)
	require.Len(t, got.Events, 1)

	ev := got.Events[0]
	assert.Equal(t, "Boston Celtics", ev.HomeTeam)
	assert.Equal(t, "Atlanta Hawks", ev.AwayTeam)
	assert.True(t, ev.CommenceTime.Equal(time.Date(2026, 1, 12, 0, 30, 0, 0, time.UTC)))
	require.Len(t, ev.Bookmakers, 1)
	require.Len(t, ev.Bookmakers[0].Markets, 2)

	h2h := ev.Bookmakers[0].Markets[0]
	assert.Equal(t, "h2h", h2h.Key)
	assert.Equal(t, "1.45", h2h.Outcomes[0].Price.String())
	assert.Nil(t, h2h.Outcomes[0].Point)

	spread := ev.Bookmakers[0].Markets[1]
	require.NotNil(t, spread.Outcomes[0].Point)
	assert.Equal(t, "-6.5", spread.Outcomes[0].Point.String())
}

func TestDecodeOdds_EmptyArray(t *testing.T) {
	t.Parallel()

	got, err := DecodeOdds([]byte(`[]`), "application/json")
	require.NoError(t, err)
	assert.Empty(t, got.Events)
}

func TestDecodeOdds_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		path    string
	}{
		{
			name:    "non positive price",
			payload: `[{"id":"a","commence_time":"2026-01-12T00:30:00Z","home_team":"h","away_team":"a","bookmakers":[{"title":"b","markets":[{"key":"h2h","outcomes":[{"name":"h","price":0}]}]}]}]`,
			path:    "[0].bookmakers[0].markets[0].outcomes[0].price",
		},
		{
			name:    "missing price",
			payload: `[{"id":"a","commence_time":"2026-01-12T00:30:00Z","home_team":"h","away_team":"a","bookmakers":[{"title":"b","markets":[{"key":"h2h","outcomes":[{"name":"h"}]}]}]}]`,
			path:    "[0].bookmakers[0].markets[0].outcomes[0].price",
		},
		{
			name:    "missing home team",
			payload: `[{"id":"a","commence_time":"2026-01-12T00:30:00Z","away_team":"a"}]`,
			path:    "[0].home_team",
		},
		{
			name:    "bad commence time",
			payload: `[{"id":"a","commence_time":"tomorrow","home_team":"h","away_team":"a"}]`,
			path:    "[0].commence_time",
		},
		{
			name:    "object instead of array",
			payload: `{"message":"Invalid API key"}`,
			path:    "$",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeOdds([]byte(tc.payload), "application/json")
			var decodeErr *usecase.DecodeError
			require.True(t, errors.As(err, &decodeErr), "got %v", err)
			assert.Equal(t, tc.path, decodeErr.FieldPath)
		})
	}
}

func TestOddsDescriptor(t *testing.T) {
	t.Parallel()

	desc := OddsDescriptor(Config{APIKey: "secret"})
	assert.Equal(t, "https://api.the-odds-api.com/v4/sports/basketball_nba/odds", desc.Endpoint)
	assert.Equal(t, "decimal", desc.Query["oddsFormat"])
	assert.Equal(t, "h2h,spreads,totals", desc.Query["markets"])
	assert.Equal(t, usecase.AuthQuery, desc.AuthMode)
	assert.Equal(t, "apiKey", desc.AuthParam)
	assert.NoError(t, desc.Validate())
}
