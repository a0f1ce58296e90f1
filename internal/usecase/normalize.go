package usecase

import (
	"context"
	"strings"

	"github.com/riskibarqy/hoops-feed/internal/domain/game"
	"github.com/riskibarqy/hoops-feed/internal/domain/leader"
	"github.com/riskibarqy/hoops-feed/internal/domain/livescore"
	"github.com/riskibarqy/hoops-feed/internal/domain/odds"
	"github.com/riskibarqy/hoops-feed/internal/domain/standing"
	"github.com/riskibarqy/hoops-feed/internal/domain/team"
	"github.com/riskibarqy/hoops-feed/internal/platform/logging"
)

type TeamResolver interface {
	Resolve(name string) (team.Team, bool)
	ResolvePair(market, nickname string) (team.Team, bool)
}

// normalizer maps decoded provider records onto canonical domain values for a
// single provider, collecting identity misses on the way.
type normalizer struct {
	ctx      context.Context
	provider string
	resolver TeamResolver
	logger   *logging.Logger
	metrics  Metrics
	misses   []team.IdentityResolutionMiss
	seen     map[string]struct{}
}

func newNormalizer(ctx context.Context, provider string, resolver TeamResolver, logger *logging.Logger, metrics Metrics) *normalizer {
	return &normalizer{
		ctx:      ctx,
		provider: provider,
		resolver: resolver,
		logger:   logger,
		metrics:  metrics,
		seen:     make(map[string]struct{}),
	}
}

func (n *normalizer) team(ref ExternalTeamRef) team.Team {
	var (
		resolved team.Team
		ok       bool
	)
	switch {
	case ref.Market != "" && (ref.Nickname != "" || ref.Name != ""):
		resolved, ok = n.resolver.ResolvePair(ref.Market, firstNonEmpty(ref.Nickname, ref.Name))
	case ref.Name != "":
		resolved, ok = n.resolver.Resolve(ref.Name)
		if !ok && ref.Nickname != "" {
			resolved, ok = n.resolver.Resolve(ref.Nickname)
		}
	default:
		resolved, ok = n.resolver.Resolve(firstNonEmpty(ref.Nickname, ref.Alias))
	}
	if ok {
		return resolved
	}

	input := strings.TrimSpace(strings.Join([]string{ref.Market, firstNonEmpty(ref.Name, ref.Nickname, ref.Alias)}, " "))
	if _, dup := n.seen[input]; !dup {
		n.seen[input] = struct{}{}
		miss := team.IdentityResolutionMiss{Input: input, Fallback: resolved.ID}
		n.misses = append(n.misses, miss)
		n.metrics.IdentityMiss(n.provider)
		n.logger.WarnContext(n.ctx, "team identity not resolved", "provider", n.provider, "input", input, "fallback", resolved.ID)
	}
	return resolved
}

func (n *normalizer) schedule(in ExternalSchedule) []game.Game {
	out := make([]game.Game, 0, len(in.Games))
	for _, g := range in.Games {
		home := n.team(g.Home)
		away := n.team(g.Away)
		scheduledAt := g.Scheduled.UTC()

		item := game.Game{
			ID:          g.ID,
			Key:         game.Key(scheduledAt, home, away),
			Home:        home,
			Away:        away,
			ScheduledAt: scheduledAt,
			Status:      game.ParseStatus(g.Status),
			HomePoints:  g.HomePoints,
			AwayPoints:  g.AwayPoints,
			Broadcasts:  g.Broadcasts,
		}
		if g.Venue != nil {
			item.Venue = &game.Venue{Name: g.Venue.Name, City: g.Venue.City, State: g.Venue.State}
		}
		out = append(out, item)
	}
	return out
}

func (n *normalizer) standings(in ExternalStandings) []standing.Entry {
	out := make([]standing.Entry, 0, len(in.Rows))
	for _, row := range in.Rows {
		t := n.team(row.Team)
		division := standing.DivisionFor(row.Division, row.GamesBehindDivision, t)

		entry := standing.Entry{
			Team:       t,
			Wins:       row.Wins,
			Losses:     row.Losses,
			WinPct:     standing.WinPct(row.Wins, row.Losses),
			Conference: standing.ConferenceFor(row.Conference, division),
			Division:   division,
		}
		if row.Streak != nil {
			if kind := standing.ParseStreakKind(row.Streak.Kind); kind != "" {
				entry.Streak = &standing.Streak{Kind: kind, Length: row.Streak.Length}
			}
		}
		if row.LastTen != nil {
			entry.LastTen = &standing.Record{Wins: row.LastTen.Wins, Losses: row.LastTen.Losses}
		}
		out = append(out, entry)
	}
	return out
}

func (n *normalizer) leaders(in ExternalLeaders) []leader.Category {
	out := make([]leader.Category, 0, len(in.Categories))
	for _, c := range in.Categories {
		category := leader.Category{
			Name:    c.Name,
			Type:    c.Type,
			Entries: make([]leader.Entry, 0, len(c.Ranks)),
		}
		for _, r := range c.Ranks {
			entry := leader.Entry{
				Rank: r.Rank,
				Player: leader.Player{
					ID:       r.PlayerID,
					Name:     r.PlayerName,
					Position: r.PlayerPosition,
				},
				Value: r.Score,
			}
			for _, ref := range r.Teams {
				entry.Teams = append(entry.Teams, n.team(ref))
			}
			category.Entries = append(category.Entries, entry)
		}
		out = append(out, category)
	}
	return out
}

func (n *normalizer) liveScores(in ExternalLiveScores) []livescore.Game {
	out := make([]livescore.Game, 0, len(in.Games))
	for _, g := range in.Games {
		label := livescore.StatusLabel(g.Period, g.Clock)
		status := livescore.StatusFromText(g.StatusText)
		if label == livescore.LabelFinal && status == game.StatusUnknown {
			status = game.StatusFinal
		}

		out = append(out, livescore.Game{
			ID:          g.ID,
			Home:        n.team(g.Home),
			Away:        n.team(g.Away),
			HomePoints:  g.HomePoints,
			AwayPoints:  g.AwayPoints,
			Period:      g.Period,
			Clock:       g.Clock,
			Status:      status,
			StatusText:  g.StatusText,
			StatusLabel: label,
		})
	}
	return out
}

func (n *normalizer) odds(in ExternalOdds) []odds.Quote {
	out := make([]odds.Quote, 0, len(in.Events))
	for _, event := range in.Events {
		home := n.team(ExternalTeamRef{Name: event.HomeTeam})
		away := n.team(ExternalTeamRef{Name: event.AwayTeam})
		commence := event.CommenceTime.UTC()
		key := game.Key(commence, home, away)

		for _, bookmaker := range event.Bookmakers {
			for _, market := range bookmaker.Markets {
				marketType, ok := odds.ParseMarket(market.Key)
				if !ok {
					n.logger.DebugContext(n.ctx, "skip unknown odds market", "provider", n.provider, "market", market.Key)
					continue
				}
				quote := odds.Quote{
					EventID:      event.ID,
					GameKey:      key,
					Home:         home,
					Away:         away,
					CommenceTime: commence,
					Bookmaker:    bookmaker.Title,
					Market:       marketType,
					Outcomes:     make([]odds.Outcome, 0, len(market.Outcomes)),
				}
				for _, o := range market.Outcomes {
					quote.Outcomes = append(quote.Outcomes, odds.Outcome{
						Label: n.outcomeLabel(o.Name, home, away),
						Price: o.Price,
						Point: o.Point,
					})
				}
				out = append(out, quote)
			}
		}
	}
	return out
}

// outcomeLabel swaps a team-named outcome for the canonical team name. Other
// labels such as Over and Under pass through untouched.
func (n *normalizer) outcomeLabel(name string, home, away team.Team) string {
	resolved, ok := n.resolver.Resolve(name)
	if !ok {
		return name
	}
	switch resolved.ID {
	case home.ID:
		return home.Name
	case away.ID:
		return away.Name
	default:
		return name
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
