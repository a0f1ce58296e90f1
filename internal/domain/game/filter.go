package game

import (
	"sort"
	"time"
)

const DefaultUpcomingLimit = 5

// FilterUpcoming keeps scheduled games strictly after now, earliest first, capped at limit.
func FilterUpcoming(games []Game, now time.Time, limit int) []Game {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}

	out := make([]Game, 0, min(len(games), limit))
	for _, g := range games {
		if g.Status != StatusScheduled || !g.ScheduledAt.After(now) {
			continue
		}
		out = append(out, g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.Before(out[j].ScheduledAt)
		}
		return out[i].ID < out[j].ID
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
