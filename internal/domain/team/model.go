package team

import "fmt"

type Conference string

const (
	ConferenceEastern Conference = "Eastern"
	ConferenceWestern Conference = "Western"
	ConferenceUnknown Conference = "Unknown"
)

type Division string

const (
	DivisionAtlantic  Division = "Atlantic"
	DivisionCentral   Division = "Central"
	DivisionSoutheast Division = "Southeast"
	DivisionNorthwest Division = "Northwest"
	DivisionPacific   Division = "Pacific"
	DivisionSouthwest Division = "Southwest"
	DivisionUnknown   Division = "Unknown"
)

// Conference returns the conference a division belongs to.
func (d Division) Conference() Conference {
	switch d {
	case DivisionAtlantic, DivisionCentral, DivisionSoutheast:
		return ConferenceEastern
	case DivisionNorthwest, DivisionPacific, DivisionSouthwest:
		return ConferenceWestern
	default:
		return ConferenceUnknown
	}
}

// Team is a canonical franchise identity shared by every provider payload.
type Team struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Market     string     `json:"market,omitempty"`
	Nickname   string     `json:"nickname,omitempty"`
	LogoKey    string     `json:"logo_key"`
	Conference Conference `json:"conference"`
	Division   Division   `json:"division"`
}

// Validate checks that t is a usable identity: an id in slug form, a name and
// a division that agrees with the conference.
func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.ID != Slug(t.ID) {
		return fmt.Errorf("team id %q is not a slug", t.ID)
	}
	if t.Name == "" {
		return fmt.Errorf("team %s: name is required", t.ID)
	}
	if t.Division.Conference() != t.Conference {
		return fmt.Errorf("team %s: division %s is not in conference %s", t.ID, t.Division, t.Conference)
	}

	return nil
}

// IdentityResolutionMiss records a team name that fell through every lookup table.
type IdentityResolutionMiss struct {
	Input    string `json:"input"`
	Fallback string `json:"fallback"`
}

func (m IdentityResolutionMiss) Error() string {
	return fmt.Sprintf("team identity not resolved: input=%q fallback=%q", m.Input, m.Fallback)
}
