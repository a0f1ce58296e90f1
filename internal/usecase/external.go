package usecase

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExternalTeamRef is a team as named by a provider, before identity resolution.
type ExternalTeamRef struct {
	Name     string
	Market   string
	Nickname string
	Alias    string
}

type ExternalVenue struct {
	Name  string
	City  string
	State string
}

type ExternalGame struct {
	ID         string
	Status     string
	Scheduled  time.Time
	Home       ExternalTeamRef
	Away       ExternalTeamRef
	HomePoints *int
	AwayPoints *int
	Venue      *ExternalVenue
	Broadcasts []string
}

type ExternalSchedule struct {
	Games []ExternalGame
}

type ExternalStreak struct {
	Kind   string
	Length int
}

type ExternalRecord struct {
	Wins   int
	Losses int
}

type ExternalStandingRow struct {
	Conference            string
	Division              string
	Team                  ExternalTeamRef
	Wins                  int
	Losses                int
	WinPct                *float64
	Streak                *ExternalStreak
	GamesBehindConference *float64
	GamesBehindDivision   *float64
	LastTen               *ExternalRecord
}

type ExternalStandings struct {
	Rows []ExternalStandingRow
}

type ExternalLeaderRank struct {
	Rank           int
	Score          float64
	PlayerID       string
	PlayerName     string
	PlayerPosition string
	Teams          []ExternalTeamRef
}

type ExternalLeaderCategory struct {
	Name  string
	Type  string
	Ranks []ExternalLeaderRank
}

type ExternalLeaders struct {
	Categories []ExternalLeaderCategory
}

type ExternalLiveGame struct {
	ID         string
	Home       ExternalTeamRef
	Away       ExternalTeamRef
	HomePoints *int
	AwayPoints *int
	Period     int
	Clock      *string
	StatusText string
}

type ExternalLiveScores struct {
	Games []ExternalLiveGame
}

type ExternalOddsOutcome struct {
	Name  string
	Price decimal.Decimal
	Point *decimal.Decimal
}

type ExternalOddsMarket struct {
	Key      string
	Outcomes []ExternalOddsOutcome
}

type ExternalBookmaker struct {
	Title   string
	Markets []ExternalOddsMarket
}

type ExternalOddsEvent struct {
	ID           string
	HomeTeam     string
	AwayTeam     string
	CommenceTime time.Time
	Bookmakers   []ExternalBookmaker
}

type ExternalOdds struct {
	Events []ExternalOddsEvent
}
