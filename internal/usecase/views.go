package usecase

import (
	"time"

	"github.com/riskibarqy/hoops-feed/internal/domain/game"
	"github.com/riskibarqy/hoops-feed/internal/domain/leader"
	"github.com/riskibarqy/hoops-feed/internal/domain/livescore"
	"github.com/riskibarqy/hoops-feed/internal/domain/odds"
	"github.com/riskibarqy/hoops-feed/internal/domain/standing"
	"github.com/riskibarqy/hoops-feed/internal/domain/team"
)

// FeatureError is the presentation-facing side of a provider failure.
type FeatureError struct {
	Err     error  `json:"-"`
	Message string `json:"error,omitempty"`
}

func newFeatureError(err error) FeatureError {
	if err == nil {
		return FeatureError{}
	}
	return FeatureError{Err: err, Message: err.Error()}
}

func (f FeatureError) Failed() bool { return f.Err != nil || f.Message != "" }

// Provenance records which cycle produced a view.
type Provenance struct {
	CycleID   string    `json:"cycle_id"`
	Feed      string    `json:"feed"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Age reports how old the view is at now.
func (p Provenance) Age(now time.Time) time.Duration {
	if p.UpdatedAt.IsZero() || now.Before(p.UpdatedAt) {
		return 0
	}
	return now.Sub(p.UpdatedAt)
}

type ScheduleView struct {
	Games []game.Game `json:"games"`
	Provenance
	FeatureError
}

type StandingsView struct {
	Conferences []standing.ConferenceTable `json:"conferences"`
	Divisions   []standing.DivisionTable   `json:"divisions"`
	Provenance
	FeatureError
}

type LeadersView struct {
	Categories []leader.Category `json:"categories"`
	Provenance
	FeatureError
}

type LiveScoresView struct {
	Games []livescore.Game `json:"games"`
	Provenance
	FeatureError
}

type OddsView struct {
	Lines []odds.Line `json:"lines"`
	Provenance
	FeatureError
}

// Dashboard is the unified view of one cycle. A nil feature was not part of
// the cycle's feed.
type Dashboard struct {
	CycleID     string                        `json:"cycle_id"`
	Feed        string                        `json:"feed"`
	AssembledAt time.Time                     `json:"assembled_at"`
	Schedule    *ScheduleView                 `json:"schedule,omitempty"`
	Standings   *StandingsView                `json:"standings,omitempty"`
	Leaders     *LeadersView                  `json:"leaders,omitempty"`
	LiveScores  *LiveScoresView               `json:"live_scores,omitempty"`
	Odds        *OddsView                     `json:"odds,omitempty"`
	Misses      []team.IdentityResolutionMiss `json:"identity_misses,omitempty"`
}

// Origin describes the dashboard as a whole.
func (d Dashboard) Origin() Provenance {
	return Provenance{CycleID: d.CycleID, Feed: d.Feed, UpdatedAt: d.AssembledAt}
}

// Degraded reports whether any feature of the dashboard carries a failure.
func (d Dashboard) Degraded() bool {
	return (d.Schedule != nil && d.Schedule.Failed()) ||
		(d.Standings != nil && d.Standings.Failed()) ||
		(d.Leaders != nil && d.Leaders.Failed()) ||
		(d.LiveScores != nil && d.LiveScores.Failed()) ||
		(d.Odds != nil && d.Odds.Failed())
}
