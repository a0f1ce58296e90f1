package usecase

import (
	"slices"
	"time"

	"github.com/riskibarqy/hoops-feed/internal/domain/game"
	"github.com/riskibarqy/hoops-feed/internal/domain/leader"
	"github.com/riskibarqy/hoops-feed/internal/domain/livescore"
	"github.com/riskibarqy/hoops-feed/internal/domain/odds"
	"github.com/riskibarqy/hoops-feed/internal/domain/standing"
	"github.com/riskibarqy/hoops-feed/internal/domain/team"
)

type ProviderFailure struct {
	Provider string
	Kind     ProviderKind
	Err      error
}

// AggregationResult is the settled, read-only outcome of one cycle. Accessors
// return copies so a result can be shared between consumers.
type AggregationResult struct {
	cycleID   string
	feed      string
	startedAt time.Time
	settledAt time.Time
	requested []ProviderKind

	schedule  []game.Game
	standings []standing.Entry
	leaders   []leader.Category
	live      []livescore.Game
	odds      []odds.Quote

	failures []ProviderFailure
	misses   []team.IdentityResolutionMiss
}

func (r AggregationResult) CycleID() string      { return r.cycleID }
func (r AggregationResult) Feed() string         { return r.feed }
func (r AggregationResult) StartedAt() time.Time { return r.startedAt }
func (r AggregationResult) SettledAt() time.Time { return r.settledAt }

// Requested reports whether the cycle included a provider of this kind.
func (r AggregationResult) Requested(kind ProviderKind) bool {
	return slices.Contains(r.requested, kind)
}

func (r AggregationResult) Schedule() []game.Game        { return slices.Clone(r.schedule) }
func (r AggregationResult) Standings() []standing.Entry  { return slices.Clone(r.standings) }
func (r AggregationResult) Leaders() []leader.Category   { return slices.Clone(r.leaders) }
func (r AggregationResult) LiveScores() []livescore.Game { return slices.Clone(r.live) }
func (r AggregationResult) Odds() []odds.Quote           { return slices.Clone(r.odds) }

func (r AggregationResult) Failed() []ProviderFailure { return slices.Clone(r.failures) }

func (r AggregationResult) Misses() []team.IdentityResolutionMiss { return slices.Clone(r.misses) }

// FailureFor returns the first failure recorded for kind, or nil.
func (r AggregationResult) FailureFor(kind ProviderKind) error {
	for _, f := range r.failures {
		if f.Kind == kind {
			return f.Err
		}
	}
	return nil
}

// ResultBuilder assembles an AggregationResult. It is not safe for concurrent
// use; the orchestrator only touches it after every fetch has settled.
type ResultBuilder struct {
	result AggregationResult
}

func NewResultBuilder(cycleID, feed string, startedAt time.Time) *ResultBuilder {
	return &ResultBuilder{result: AggregationResult{
		cycleID:   cycleID,
		feed:      feed,
		startedAt: startedAt,
	}}
}

func (b *ResultBuilder) Request(kind ProviderKind) *ResultBuilder {
	if !slices.Contains(b.result.requested, kind) {
		b.result.requested = append(b.result.requested, kind)
	}
	return b
}

func (b *ResultBuilder) AddSchedule(games ...game.Game) *ResultBuilder {
	b.result.schedule = append(b.result.schedule, games...)
	return b
}

func (b *ResultBuilder) AddStandings(entries ...standing.Entry) *ResultBuilder {
	b.result.standings = append(b.result.standings, entries...)
	return b
}

func (b *ResultBuilder) AddLeaders(categories ...leader.Category) *ResultBuilder {
	b.result.leaders = append(b.result.leaders, categories...)
	return b
}

func (b *ResultBuilder) AddLiveScores(games ...livescore.Game) *ResultBuilder {
	b.result.live = append(b.result.live, games...)
	return b
}

func (b *ResultBuilder) AddOdds(quotes ...odds.Quote) *ResultBuilder {
	b.result.odds = append(b.result.odds, quotes...)
	return b
}

func (b *ResultBuilder) Fail(provider string, kind ProviderKind, cause error) *ResultBuilder {
	b.result.failures = append(b.result.failures, ProviderFailure{
		Provider: provider,
		Kind:     kind,
		Err:      &PartialAggregationFailure{Provider: provider, Kind: kind, Cause: cause},
	})
	return b
}

func (b *ResultBuilder) Miss(misses ...team.IdentityResolutionMiss) *ResultBuilder {
	b.result.misses = append(b.result.misses, misses...)
	return b
}

func (b *ResultBuilder) Build(settledAt time.Time) AggregationResult {
	out := b.result
	out.settledAt = settledAt
	b.result = AggregationResult{}
	return out
}
