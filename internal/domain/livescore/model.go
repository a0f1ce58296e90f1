package livescore

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/hoops-feed/internal/domain/game"
	"github.com/riskibarqy/hoops-feed/internal/domain/team"
)

const (
	LabelFinal    = "FINAL"
	LabelHalftime = "HALF"
	emptyClock    = "0:00"
)

// Game is an in-progress or just-finished matchup as reported by the live feed.
type Game struct {
	ID          string      `json:"id"`
	Home        team.Team   `json:"home"`
	Away        team.Team   `json:"away"`
	HomePoints  *int        `json:"home_points,omitempty"`
	AwayPoints  *int        `json:"away_points,omitempty"`
	Period      int         `json:"period"`
	Clock       *string     `json:"clock,omitempty"`
	Status      game.Status `json:"status"`
	StatusText  string      `json:"status_text"`
	StatusLabel string      `json:"status_label"`
}

// StatusLabel renders period and clock as FINAL, HALF or "Q3 5:42".
func StatusLabel(period int, clock *string) string {
	remaining := clockRemaining(clock)
	switch {
	case period == 4 && !remaining:
		return LabelFinal
	case period == 2 && !remaining:
		return LabelHalftime
	}

	display := emptyClock
	if clock != nil && strings.TrimSpace(*clock) != "" {
		display = strings.TrimSpace(*clock)
	}
	return fmt.Sprintf("Q%d %s", period, display)
}

func clockRemaining(clock *string) bool {
	if clock == nil {
		return false
	}
	value := strings.TrimSpace(*clock)
	return value != "" && value != emptyClock
}

// StatusFromText maps the live feed's long status onto game.Status.
func StatusFromText(text string) game.Status {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "in play", "halftime", "live":
		return game.StatusInProgress
	case "finished", "final", "ended":
		return game.StatusFinal
	case "scheduled", "not started":
		return game.StatusScheduled
	default:
		return game.ParseStatus(text)
	}
}
