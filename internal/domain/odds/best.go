package odds

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/hoops-feed/internal/domain/team"
)

type BestPrice struct {
	Market             MarketType       `json:"market"`
	Label              string           `json:"label"`
	Point              *decimal.Decimal `json:"point,omitempty"`
	Price              decimal.Decimal  `json:"price"`
	Bookmaker          string           `json:"bookmaker"`
	ImpliedProbability decimal.Decimal  `json:"implied_probability"`
}

// Line is the best available price per outcome for one game.
type Line struct {
	GameKey      string      `json:"game_key"`
	Home         team.Team   `json:"home"`
	Away         team.Team   `json:"away"`
	CommenceTime time.Time   `json:"commence_time"`
	Bookmakers   int         `json:"bookmakers"`
	Best         []BestPrice `json:"best"`
}

type outcomeKey struct {
	market MarketType
	label  string
	point  string
}

// BestPrices picks the highest price for every market outcome across
// bookmakers. Lines come back ordered by commence time, then game key.
func BestPrices(quotes []Quote) []Line {
	type lineState struct {
		line       Line
		best       map[outcomeKey]BestPrice
		order      []outcomeKey
		bookmakers map[string]struct{}
	}

	states := make(map[string]*lineState, len(quotes))
	keys := make([]string, 0, len(quotes))
	for _, q := range quotes {
		state, ok := states[q.GameKey]
		if !ok {
			state = &lineState{
				line: Line{
					GameKey:      q.GameKey,
					Home:         q.Home,
					Away:         q.Away,
					CommenceTime: q.CommenceTime,
				},
				best:       make(map[outcomeKey]BestPrice, 6),
				bookmakers: make(map[string]struct{}, 8),
			}
			states[q.GameKey] = state
			keys = append(keys, q.GameKey)
		}
		state.bookmakers[q.Bookmaker] = struct{}{}

		for _, o := range q.Outcomes {
			key := outcomeKey{market: q.Market, label: o.Label}
			if o.Point != nil {
				key.point = o.Point.String()
			}
			current, seen := state.best[key]
			if seen && !o.Price.GreaterThan(current.Price) {
				continue
			}
			if !seen {
				state.order = append(state.order, key)
			}
			state.best[key] = BestPrice{
				Market:             q.Market,
				Label:              o.Label,
				Point:              o.Point,
				Price:              o.Price,
				Bookmaker:          q.Bookmaker,
				ImpliedProbability: ImpliedProbability(o.Price),
			}
		}
	}

	out := make([]Line, 0, len(keys))
	for _, key := range keys {
		state := states[key]
		state.line.Bookmakers = len(state.bookmakers)
		state.line.Best = make([]BestPrice, 0, len(state.order))
		for _, k := range state.order {
			state.line.Best = append(state.line.Best, state.best[k])
		}
		out = append(out, state.line)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CommenceTime.Equal(out[j].CommenceTime) {
			return out[i].CommenceTime.Before(out[j].CommenceTime)
		}
		return out[i].GameKey < out[j].GameKey
	})
	return out
}
