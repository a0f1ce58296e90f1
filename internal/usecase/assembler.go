package usecase

import (
	"time"

	"github.com/riskibarqy/hoops-feed/internal/domain/game"
	"github.com/riskibarqy/hoops-feed/internal/domain/leader"
	"github.com/riskibarqy/hoops-feed/internal/domain/livescore"
	"github.com/riskibarqy/hoops-feed/internal/domain/odds"
	"github.com/riskibarqy/hoops-feed/internal/domain/standing"
)

type AssembleOptions struct {
	Now           time.Time
	ScheduleLimit int
	LeadersLimit  int
}

// Assemble turns a settled cycle into the dashboard. It never fails: a
// provider failure only empties its own feature.
func Assemble(result AggregationResult, opts AssembleOptions) Dashboard {
	now := opts.Now
	if now.IsZero() {
		now = result.SettledAt()
	}

	origin := Provenance{CycleID: result.CycleID(), Feed: result.Feed(), UpdatedAt: now}
	d := Dashboard{
		CycleID:     result.CycleID(),
		Feed:        result.Feed(),
		AssembledAt: now,
		Misses:      result.Misses(),
	}

	if result.Requested(KindSchedule) {
		view := &ScheduleView{Provenance: origin}
		view.FeatureError = newFeatureError(result.FailureFor(KindSchedule))
		view.Games = game.FilterUpcoming(result.Schedule(), now, opts.ScheduleLimit)
		d.Schedule = view
	}

	if result.Requested(KindStandings) {
		view := &StandingsView{
			Conferences: []standing.ConferenceTable{},
			Divisions:   []standing.DivisionTable{},
			Provenance:  origin,
		}
		view.FeatureError = newFeatureError(result.FailureFor(KindStandings))
		if entries := result.Standings(); len(entries) > 0 {
			view.Conferences = standing.RankConferences(entries)
			view.Divisions = standing.GroupDivisions(view.Conferences)
		}
		d.Standings = view
	}

	if result.Requested(KindLeaders) {
		view := &LeadersView{Provenance: origin}
		view.FeatureError = newFeatureError(result.FailureFor(KindLeaders))
		view.Categories = leader.SelectTop(result.Leaders(), opts.LeadersLimit)
		d.Leaders = view
	}

	if result.Requested(KindLiveScores) {
		view := &LiveScoresView{Games: result.LiveScores(), Provenance: origin}
		view.FeatureError = newFeatureError(result.FailureFor(KindLiveScores))
		if view.Games == nil {
			view.Games = []livescore.Game{}
		}
		d.LiveScores = view
	}

	if result.Requested(KindOdds) {
		view := &OddsView{Provenance: origin}
		view.FeatureError = newFeatureError(result.FailureFor(KindOdds))
		view.Lines = odds.BestPrices(result.Odds())
		d.Odds = view
	}

	return d
}
