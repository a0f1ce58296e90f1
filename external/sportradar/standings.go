package sportradar

import (
	"strings"

	"github.com/riskibarqy/hoops-feed/external/upstream"
	"github.com/riskibarqy/hoops-feed/internal/usecase"
)

const recordTypeLastTen = "last_10"

type standingsEnvelope struct {
	Conferences []standingsConference `json:"conferences" validate:"required,dive"`
}

type standingsConference struct {
	Name      *string             `json:"name" validate:"required"`
	Divisions []standingsDivision `json:"divisions" validate:"dive"`
	// Some feeds list teams directly on the conference.
	Teams []standingsTeam `json:"teams" validate:"dive"`
}

type standingsDivision struct {
	Name  string          `json:"name"`
	Teams []standingsTeam `json:"teams" validate:"required,dive"`
}

type standingsTeam struct {
	ID          string             `json:"id"`
	Name        *string            `json:"name" validate:"required"`
	Market      string             `json:"market"`
	Wins        *int               `json:"wins" validate:"required"`
	Losses      *int               `json:"losses" validate:"required"`
	WinPct      *float64           `json:"win_pct"`
	Streak      *standingsStreak   `json:"streak"`
	GamesBehind *standingsBehind   `json:"games_behind"`
	Records     []standingsRecords `json:"records"`
}

type standingsStreak struct {
	Kind   string `json:"kind"`
	Length int    `json:"length"`
}

type standingsBehind struct {
	League     *float64 `json:"league"`
	Conference *float64 `json:"conference"`
	Division   *float64 `json:"division"`
}

type standingsRecords struct {
	RecordType string `json:"record_type"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
}

// DecodeStandings flattens conference and division groupings into rows. The
// grouping names travel with each row; nothing is dropped.
func DecodeStandings(raw []byte, contentType string) (usecase.ExternalStandings, error) {
	var envelope standingsEnvelope
	if err := upstream.DecodeJSON(raw, contentType, &envelope); err != nil {
		return usecase.ExternalStandings{}, err
	}

	out := usecase.ExternalStandings{Rows: make([]usecase.ExternalStandingRow, 0, 30)}
	for _, conference := range envelope.Conferences {
		for _, division := range conference.Divisions {
			for _, t := range division.Teams {
				out.Rows = append(out.Rows, standingRow(*conference.Name, division.Name, t))
			}
		}
		for _, t := range conference.Teams {
			out.Rows = append(out.Rows, standingRow(*conference.Name, "", t))
		}
	}
	return out, nil
}

func standingRow(conference, division string, t standingsTeam) usecase.ExternalStandingRow {
	row := usecase.ExternalStandingRow{
		Conference: strings.TrimSpace(conference),
		Division:   strings.TrimSpace(division),
		Team: usecase.ExternalTeamRef{
			Name:   strings.TrimSpace(*t.Name),
			Market: strings.TrimSpace(t.Market),
		},
		Wins:   *t.Wins,
		Losses: *t.Losses,
		WinPct: t.WinPct,
	}
	if t.Streak != nil {
		row.Streak = &usecase.ExternalStreak{Kind: t.Streak.Kind, Length: t.Streak.Length}
	}
	if t.GamesBehind != nil {
		row.GamesBehindConference = t.GamesBehind.Conference
		row.GamesBehindDivision = t.GamesBehind.Division
	}
	for _, r := range t.Records {
		if r.RecordType == recordTypeLastTen {
			row.LastTen = &usecase.ExternalRecord{Wins: r.Wins, Losses: r.Losses}
			break
		}
	}
	return row
}
