package standing

import (
	"strings"

	"github.com/riskibarqy/hoops-feed/internal/domain/team"
)

func ParseConference(name string) team.Conference {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.Contains(normalized, "east"):
		return team.ConferenceEastern
	case strings.Contains(normalized, "west"):
		return team.ConferenceWestern
	default:
		return team.ConferenceUnknown
	}
}

func ParseDivision(name string) team.Division {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, d := range []team.Division{
		team.DivisionAtlantic,
		team.DivisionCentral,
		team.DivisionSoutheast,
		team.DivisionNorthwest,
		team.DivisionPacific,
		team.DivisionSouthwest,
	} {
		if normalized != "" && strings.Contains(normalized, strings.ToLower(string(d))) {
			return d
		}
	}
	return team.DivisionUnknown
}

// DivisionFor picks the division for a standings row. The payload name wins
// unless it is missing, unknown, or flagged by a negative division games-behind,
// in which case the static market table decides.
func DivisionFor(payloadDivision string, gamesBehindDivision *float64, t team.Team) team.Division {
	if gamesBehindDivision == nil || *gamesBehindDivision >= 0 {
		if d := ParseDivision(payloadDivision); d != team.DivisionUnknown {
			return d
		}
	}
	if t.Division != "" && t.Division != team.DivisionUnknown {
		return t.Division
	}
	return team.DivisionForMarket(t.Market)
}

// ConferenceFor prefers the payload conference and falls back to the division's.
func ConferenceFor(payloadConference string, division team.Division) team.Conference {
	if c := ParseConference(payloadConference); c != team.ConferenceUnknown {
		return c
	}
	return division.Conference()
}
