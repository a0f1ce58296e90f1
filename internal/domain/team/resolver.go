package team

import (
	"fmt"
	"strings"
	"unicode"
)

const unknownTeamID = "unknown"

// Resolver maps provider team names onto canonical identities.
// It is read-only after construction and safe for concurrent use.
type Resolver struct {
	byKey     map[string]Team
	overrides map[string]string
}

func NewResolver() *Resolver {
	r := &Resolver{
		byKey:     make(map[string]Team, len(franchises)*3),
		overrides: overrides,
	}

	for _, f := range franchises {
		t := f.team()
		if err := t.Validate(); err != nil {
			panic(fmt.Sprintf("team: invalid franchise table: %v", err))
		}
		r.byKey[lookupKey(t.ID)] = t
		r.byKey[lookupKey(f.nickname)] = t
	}

	return r
}

// Resolve returns the canonical team for name. The boolean is false when the
// name matched nothing and the returned team was built from the slug fallback.
func (r *Resolver) Resolve(name string) (Team, bool) {
	fallback := Slug(name)
	if fallback == "" {
		return fallbackTeam(name, unknownTeamID), false
	}

	key := lookupKey(name)

	if id, ok := r.overrides[key]; ok {
		if t, ok := r.byKey[id]; ok {
			return t, true
		}
	}
	if t, ok := r.byKey[key]; ok {
		return t, true
	}

	return fallbackTeam(name, fallback), false
}

// ResolvePair resolves a team given separately as market and nickname.
func (r *Resolver) ResolvePair(market, nickname string) (Team, bool) {
	market = strings.TrimSpace(market)
	nickname = strings.TrimSpace(nickname)
	if market != "" && nickname != "" {
		if t, ok := r.Resolve(market + " " + nickname); ok {
			return t, true
		}
	}
	if nickname != "" {
		if t, ok := r.Resolve(nickname); ok {
			return t, true
		}
	}

	full := strings.TrimSpace(market + " " + nickname)
	t, _ := r.Resolve(full)
	if t.Market == "" {
		t.Market = market
		t.Nickname = nickname
		t.Division = DivisionForMarket(market)
		t.Conference = t.Division.Conference()
	}
	return t, false
}

func (f franchise) team() Team {
	name := f.market + " " + f.nickname
	id := Slug(name)
	logoKey := f.logoKey
	if logoKey == "" {
		logoKey = id + "-logo"
	}
	return Team{
		ID:         id,
		Name:       name,
		Market:     f.market,
		Nickname:   f.nickname,
		LogoKey:    logoKey,
		Conference: f.division.Conference(),
		Division:   f.division,
	}
}

func fallbackTeam(input, id string) Team {
	name := strings.TrimSpace(input)
	if name == "" {
		name = "Unknown"
	}
	return Team{
		ID:         id,
		Name:       name,
		LogoKey:    id + "-logo",
		Conference: ConferenceUnknown,
		Division:   DivisionUnknown,
	}
}

// Slug lower-cases value and joins its whitespace-separated words with
// hyphens. Punctuation is kept: "St. Louis Bombers" becomes
// "st.-louis-bombers".
func Slug(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), "-")
}

// lookupKey is the table key for value: lower-cased alphanumeric runs joined
// with hyphens, so "L.A. Clippers" and "LA Clippers" share a key.
func lookupKey(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	pendingDash := false
	for _, r := range strings.ToLower(value) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
