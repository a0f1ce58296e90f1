package standing

import (
	"fmt"
	"math"
	"strings"

	"github.com/riskibarqy/hoops-feed/internal/domain/team"
)

type StreakKind string

const (
	StreakWin  StreakKind = "win"
	StreakLoss StreakKind = "loss"
)

type Streak struct {
	Kind   StreakKind `json:"kind"`
	Length int        `json:"length"`
}

// Label renders the streak as "Won 3" or "Lost 2".
func (s *Streak) Label() string {
	if s == nil || s.Length <= 0 {
		return ""
	}
	switch s.Kind {
	case StreakWin:
		return fmt.Sprintf("Won %d", s.Length)
	case StreakLoss:
		return fmt.Sprintf("Lost %d", s.Length)
	default:
		return ""
	}
}

// ParseStreakKind accepts provider spellings such as "win", "W" or "loss".
func ParseStreakKind(value string) StreakKind {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "win", "w", "won":
		return StreakWin
	case "loss", "l", "lost":
		return StreakLoss
	default:
		return ""
	}
}

type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

func (r *Record) Label() string {
	if r == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d-%d", r.Wins, r.Losses)
}

// Entry is one team's row in the standings.
type Entry struct {
	Team           team.Team       `json:"team"`
	Wins           int             `json:"wins"`
	Losses         int             `json:"losses"`
	WinPct         float64         `json:"win_pct"`
	Conference     team.Conference `json:"conference"`
	Division       team.Division   `json:"division"`
	ConferenceRank int             `json:"conference_rank"`
	GamesBehind    float64         `json:"games_behind"`
	Streak         *Streak         `json:"streak,omitempty"`
	LastTen        *Record         `json:"last_ten,omitempty"`
}

// WinPct is wins over games played, zero when no games were played.
func WinPct(wins, losses int) float64 {
	played := wins + losses
	if played <= 0 {
		return 0
	}
	return float64(wins) / float64(played)
}

// RoundPct rounds a percentage to three places for display.
func RoundPct(value float64) float64 {
	return math.Round(value*1000) / 1000
}
