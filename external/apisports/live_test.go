package apisports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

const livePayload = `{
  "get": "games",
  "parameters": {"live": "all"},
  "errors": [],
  "results": 2,
  "response": [
    {
      "id": 14001,
      "status": {"clock": "5:42", "halftime": false, "short": 2, "long": "In Play"},
      "periods": {"current": 3, "total": 4, "endOfPeriod": false},
      "teams": {
        "visitors": {"id": 1, "name": "Atlanta Hawks", "nickname": "Hawks", "code": "ATL"},
        "home": {"id": 2, "name": "Boston Celtics", "nickname": "Celtics", "code": "BOS"}
      },
      "scores": {"visitors": {"points": 70}, "home": {"points": 81}}
    },
    {
      "id": 14002,
      "status": {"clock": null, "halftime": true, "short": 2, "long": "Halftime"},
      "periods": {"current": 2, "total": 4, "endOfPeriod": true},
      "teams": {
        "visitors": {"name": "LA Clippers", "nickname": "Clippers"},
        "home": {"name": "Portland Trail Blazers", "nickname": "Trail Blazers"}
      },
      "scores": {"visitors": {"points": null}, "home": {"points": 50}}
    }
  ]
}`

func TestDecodeLiveScores(t *testing.T) {
	t.Parallel()

	got, err := DecodeLiveScores([]byte(livePayload), "application/json")
	require.NoError(t, err)
	require.Len(t, got.Games, 2)

	first := got.Games[0]
	assert.Equal(t, "14001", first.ID)
	assert.Equal(t, "Boston Celtics", first.Home.Name)
	assert.Equal(t, "Hawks", first.Away.Nickname)
	assert.Equal(t, 3, first.Period)
	require.NotNil(t, first.Clock)
	assert.Equal(t, "5:42", *first.Clock)
	require.NotNil(t, first.HomePoints)
	assert.Equal(t, 81, *first.HomePoints)

	second := got.Games[1]
	assert.Nil(t, second.Clock)
	assert.Nil(t, second.AwayPoints)
	assert.Equal(t, "Halftime", second.StatusText)
}

func TestDecodeLiveScores_MissingPeriod(t *testing.T) {
	t.Parallel()

	payload := `{"response":[{"status":{"long":"In Play"},"periods":{},"teams":{"visitors":{"name":"a"},"home":{"name":"b"}},"scores":{"visitors":{},"home":{}}}]}`
	_, err := DecodeLiveScores([]byte(payload), "application/json")

	var decodeErr *usecase.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "response[0].periods.current", decodeErr.FieldPath)
}

func TestLiveDescriptor(t *testing.T) {
	t.Parallel()

	desc := LiveDescriptor(Config{APIKey: "k"})
	assert.Equal(t, "https://api-nba-v1.p.rapidapi.com/games", desc.Endpoint)
	assert.Equal(t, "all", desc.Query["live"])
	assert.Equal(t, usecase.AuthHeader, desc.AuthMode)
	assert.Equal(t, "x-rapidapi-key", desc.AuthParam)
	assert.Equal(t, "api-nba-v1.p.rapidapi.com", desc.Headers["x-rapidapi-host"])
	assert.NoError(t, desc.Validate())
}
