package leader

import (
	"sort"
	"strings"

	"github.com/riskibarqy/hoops-feed/internal/domain/team"
)

const (
	DefaultLimit = 3
	TypeAverage  = "average"
)

type Player struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

type Entry struct {
	Rank   int         `json:"rank"`
	Player Player      `json:"player"`
	Value  float64     `json:"value"`
	Teams  []team.Team `json:"teams,omitempty"`
}

// Category is one statistical leaderboard, e.g. points per game.
type Category struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	DisplayName  string  `json:"display_name"`
	Abbreviation string  `json:"abbreviation"`
	Entries      []Entry `json:"entries"`
}

type categoryMeta struct {
	displayName  string
	abbreviation string
}

var knownCategories = []string{
	"points",
	"assists",
	"rebounds",
	"steals",
	"three_points_made",
	"free_throws_att",
}

var categoryMetadata = map[string]categoryMeta{
	"points":            {displayName: "Points Per Game", abbreviation: "PTS"},
	"assists":           {displayName: "Assists Per Game", abbreviation: "AST"},
	"rebounds":          {displayName: "Rebounds Per Game", abbreviation: "REB"},
	"steals":            {displayName: "Steals Per Game", abbreviation: "STL"},
	"three_points_made": {displayName: "3-Pointers Made Per Game", abbreviation: "3PT"},
	"free_throws_att":   {displayName: "Free Throw Attempts Per Game", abbreviation: "FT"},
}

// SelectTop keeps average-type categories, orders each by rank with duplicate
// ranks dropped, and truncates to limit entries.
func SelectTop(categories []Category, limit int) []Category {
	if limit <= 0 {
		limit = DefaultLimit
	}

	out := make([]Category, 0, len(categories))
	seen := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if !strings.EqualFold(strings.TrimSpace(c.Type), TypeAverage) {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		c.Name = name
		c.Type = TypeAverage
		c.Entries = topEntries(c.Entries, limit)
		c.DisplayName, c.Abbreviation = describe(name)
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := categoryOrder(out[i].Name), categoryOrder(out[j].Name)
		if oi != oj {
			return oi < oj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func topEntries(entries []Entry, limit int) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank < sorted[j].Rank
	})

	out := make([]Entry, 0, min(limit, len(sorted)))
	lastRank := 0
	for _, e := range sorted {
		if len(out) == limit {
			break
		}
		if e.Rank <= lastRank {
			continue
		}
		lastRank = e.Rank
		out = append(out, e)
	}
	return out
}

func categoryOrder(name string) int {
	for i, known := range knownCategories {
		if known == name {
			return i
		}
	}
	return len(knownCategories)
}

func describe(name string) (string, string) {
	if meta, ok := categoryMetadata[name]; ok {
		return meta.displayName, meta.abbreviation
	}
	display := strings.ReplaceAll(name, "_", " ")
	if display != "" {
		display = strings.ToUpper(display[:1]) + display[1:]
	}
	return display, strings.ToUpper(name)
}
