package game

import (
	"strings"
	"time"

	"github.com/riskibarqy/hoops-feed/internal/domain/team"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusFinal      Status = "final"
	StatusUnknown    Status = "unknown"
)

// ParseStatus maps provider status strings onto Status.
func ParseStatus(value string) Status {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "scheduled", "created", "time-tbd", "not started", "ns":
		return StatusScheduled
	case "inprogress", "in progress", "in_progress", "halftime", "live", "flight delay":
		return StatusInProgress
	case "closed", "complete", "completed", "final", "finished", "ft":
		return StatusFinal
	default:
		return StatusUnknown
	}
}

type Venue struct {
	Name  string `json:"name"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}

// Game is one scheduled or played matchup between two canonical teams.
type Game struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Home        team.Team `json:"home"`
	Away        team.Team `json:"away"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      Status    `json:"status"`
	HomePoints  *int      `json:"home_points,omitempty"`
	AwayPoints  *int      `json:"away_points,omitempty"`
	Venue       *Venue    `json:"venue,omitempty"`
	Broadcasts  []string  `json:"broadcasts,omitempty"`
}

// Key identifies a matchup independently of any provider's game id.
func Key(scheduledAt time.Time, home, away team.Team) string {
	return scheduledAt.UTC().Format(time.DateOnly) + ":" + away.ID + "@" + home.ID
}
