package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/hoops-feed/internal/platform/cache"
)

// SnapshotService keeps the latest dashboard per feed and serves feature
// views from whichever feed refreshed them last. It is a Sink.
type SnapshotService struct {
	store *cache.Store[Dashboard]
}

func NewSnapshotService(store *cache.Store[Dashboard]) *SnapshotService {
	return &SnapshotService{store: store}
}

func (s *SnapshotService) Publish(ctx context.Context, dashboard Dashboard) error {
	if dashboard.Feed == "" {
		return fmt.Errorf("%w: dashboard has no feed", ErrInvalidInput)
	}
	s.store.Set(ctx, dashboard.Feed, dashboard)
	return nil
}

// Feed returns the latest dashboard of one feed, loading it through load when
// none is cached yet.
func (s *SnapshotService) Feed(ctx context.Context, name string, load func(context.Context) (Dashboard, error)) (Dashboard, error) {
	ctx, span := startReadSpan(ctx, "usecase.SnapshotService.Feed")
	defer span.End()

	if load == nil {
		d, ok := s.store.Get(ctx, name)
		if !ok {
			return Dashboard{}, fmt.Errorf("%w: no snapshot for feed %s", ErrNotFound, name)
		}
		return d, nil
	}
	return s.store.GetOrLoad(ctx, name, load)
}

// Dashboard merges the latest view of every feature across feeds.
func (s *SnapshotService) Dashboard(ctx context.Context) (Dashboard, error) {
	ctx, span := startReadSpan(ctx, "usecase.SnapshotService.Dashboard")
	defer span.End()

	var (
		out   Dashboard
		found bool
	)
	for _, name := range s.store.Keys(ctx) {
		d, ok := s.store.Get(ctx, name)
		if !ok {
			continue
		}
		found = true
		if d.AssembledAt.After(out.AssembledAt) {
			out.CycleID = d.CycleID
			out.AssembledAt = d.AssembledAt
		}
		out.Misses = append(out.Misses, d.Misses...)
		if d.Schedule != nil && (out.Schedule == nil || d.Schedule.UpdatedAt.After(out.Schedule.UpdatedAt)) {
			out.Schedule = d.Schedule
		}
		if d.Standings != nil && (out.Standings == nil || d.Standings.UpdatedAt.After(out.Standings.UpdatedAt)) {
			out.Standings = d.Standings
		}
		if d.Leaders != nil && (out.Leaders == nil || d.Leaders.UpdatedAt.After(out.Leaders.UpdatedAt)) {
			out.Leaders = d.Leaders
		}
		if d.LiveScores != nil && (out.LiveScores == nil || d.LiveScores.UpdatedAt.After(out.LiveScores.UpdatedAt)) {
			out.LiveScores = d.LiveScores
		}
		if d.Odds != nil && (out.Odds == nil || d.Odds.UpdatedAt.After(out.Odds.UpdatedAt)) {
			out.Odds = d.Odds
		}
	}
	if !found {
		return Dashboard{}, fmt.Errorf("%w: no snapshot available yet", ErrNotFound)
	}
	out.Feed = "all"
	return out, nil
}

func (s *SnapshotService) Schedule(ctx context.Context) (ScheduleView, error) {
	d, err := s.Dashboard(ctx)
	if err != nil {
		return ScheduleView{}, err
	}
	if d.Schedule == nil {
		return ScheduleView{}, fmt.Errorf("%w: schedule not available", ErrNotFound)
	}
	return *d.Schedule, nil
}

func (s *SnapshotService) Standings(ctx context.Context) (StandingsView, error) {
	d, err := s.Dashboard(ctx)
	if err != nil {
		return StandingsView{}, err
	}
	if d.Standings == nil {
		return StandingsView{}, fmt.Errorf("%w: standings not available", ErrNotFound)
	}
	return *d.Standings, nil
}

func (s *SnapshotService) Leaders(ctx context.Context) (LeadersView, error) {
	d, err := s.Dashboard(ctx)
	if err != nil {
		return LeadersView{}, err
	}
	if d.Leaders == nil {
		return LeadersView{}, fmt.Errorf("%w: leaders not available", ErrNotFound)
	}
	return *d.Leaders, nil
}

func (s *SnapshotService) LiveScores(ctx context.Context) (LiveScoresView, error) {
	d, err := s.Dashboard(ctx)
	if err != nil {
		return LiveScoresView{}, err
	}
	if d.LiveScores == nil {
		return LiveScoresView{}, fmt.Errorf("%w: live scores not available", ErrNotFound)
	}
	return *d.LiveScores, nil
}

func (s *SnapshotService) Odds(ctx context.Context) (OddsView, error) {
	d, err := s.Dashboard(ctx)
	if err != nil {
		return OddsView{}, err
	}
	if d.Odds == nil {
		return OddsView{}, fmt.Errorf("%w: odds not available", ErrNotFound)
	}
	return *d.Odds, nil
}

// startReadSpan traces snapshot reads only when a request span is already
// active; reads from the stream hub and the Redis relay stay untraced.
func startReadSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, trace.SpanFromContext(ctx)
	}
	return usecaseTracer.Start(ctx, name)
}
