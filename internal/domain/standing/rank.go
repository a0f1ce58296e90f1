package standing

import (
	"sort"

	"github.com/riskibarqy/hoops-feed/internal/domain/team"
)

type ConferenceTable struct {
	Conference team.Conference `json:"conference"`
	Entries    []Entry         `json:"entries"`
}

type DivisionTable struct {
	Division team.Division `json:"division"`
	Entries  []Entry       `json:"entries"`
}

// RankConferences groups entries by conference and orders each group by win
// percentage, then wins, then team id. Every input entry appears exactly once.
func RankConferences(entries []Entry) []ConferenceTable {
	grouped := make(map[team.Conference][]Entry, 3)
	for _, e := range entries {
		e.WinPct = WinPct(e.Wins, e.Losses)
		if e.Conference == "" {
			e.Conference = team.ConferenceUnknown
		}
		if e.Division == "" {
			e.Division = team.DivisionUnknown
		}
		grouped[e.Conference] = append(grouped[e.Conference], e)
	}

	out := make([]ConferenceTable, 0, len(grouped))
	for _, conference := range orderedConferences(grouped) {
		rows := grouped[conference]
		sortEntries(rows)
		leader := rows[0]
		for i := range rows {
			rows[i].ConferenceRank = i + 1
			rows[i].GamesBehind = gamesBehind(leader, rows[i])
		}
		out = append(out, ConferenceTable{Conference: conference, Entries: rows})
	}
	return out
}

// GroupDivisions splits ranked entries by division, keeping their relative order.
func GroupDivisions(tables []ConferenceTable) []DivisionTable {
	index := make(map[team.Division]int, 7)
	out := make([]DivisionTable, 0, 7)
	for _, table := range tables {
		for _, e := range table.Entries {
			i, ok := index[e.Division]
			if !ok {
				i = len(out)
				index[e.Division] = i
				out = append(out, DivisionTable{Division: e.Division})
			}
			out[i].Entries = append(out[i].Entries, e)
		}
	}
	return out
}

func sortEntries(rows []Entry) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].WinPct != rows[j].WinPct {
			return rows[i].WinPct > rows[j].WinPct
		}
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		return rows[i].Team.ID < rows[j].Team.ID
	})
}

func gamesBehind(leader, row Entry) float64 {
	return float64((leader.Wins-row.Wins)+(row.Losses-leader.Losses)) / 2
}

func orderedConferences(grouped map[team.Conference][]Entry) []team.Conference {
	out := make([]team.Conference, 0, len(grouped))
	for c := range grouped {
		out = append(out, c)
	}
	weight := func(c team.Conference) int {
		switch c {
		case team.ConferenceEastern:
			return 0
		case team.ConferenceWestern:
			return 1
		case team.ConferenceUnknown:
			return 3
		default:
			return 2
		}
	}
	sort.Slice(out, func(i, j int) bool {
		wi, wj := weight(out[i]), weight(out[j])
		if wi != wj {
			return wi < wj
		}
		return out[i] < out[j]
	})
	return out
}
