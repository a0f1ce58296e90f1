package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_ResolveKnownVariants(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	cases := []struct {
		input string
		want  string
	}{
		{input: "Celtics", want: "boston-celtics"},
		{input: "Boston Celtics", want: "boston-celtics"},
		{input: "  boston   CELTICS ", want: "boston-celtics"},
		{input: "LA Clippers", want: "los-angeles-clippers"},
		{input: "Los Angeles Clippers", want: "los-angeles-clippers"},
		{input: "Trail Blazers", want: "portland-trail-blazers"},
		{input: "Portland Trail Blazers", want: "portland-trail-blazers"},
		{input: "Blazers", want: "portland-trail-blazers"},
		{input: "Sixers", want: "philadelphia-76ers"},
		{input: "Timbe", want: "minnesota-timberwolves"},
		{input: "Golden State Warriors", want: "golden-state-warriors"},
	}

	for _, tc := range cases {
		got, ok := r.Resolve(tc.input)
		if !ok {
			t.Fatalf("expected %q to resolve", tc.input)
		}
		if got.ID != tc.want {
			t.Fatalf("expected id=%s for %q, got=%s", tc.want, tc.input, got.ID)
		}
	}
}

func TestResolver_Idempotent(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	for _, input := range []string{"Lakers", "LA Clippers", "Trail Blazers", "Seattle SuperSonics", ""} {
		first, _ := r.Resolve(input)
		second, _ := r.Resolve(first.ID)
		assert.Equal(t, first.ID, second.ID, "input %q", input)
	}
}

func TestResolver_FallbackIsSlug(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	got, ok := r.Resolve("Seattle SuperSonics")
	require.False(t, ok)
	assert.Equal(t, "seattle-supersonics", got.ID)
	assert.Equal(t, "seattle-supersonics-logo", got.LogoKey)
	assert.Equal(t, DivisionUnknown, got.Division)
}

func TestResolver_ResolvePair(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	got, ok := r.ResolvePair("Boston", "Celtics")
	require.True(t, ok)
	assert.Equal(t, DivisionAtlantic, got.Division)
	assert.Equal(t, ConferenceEastern, got.Conference)

	clippers, ok := r.ResolvePair("LA", "Clippers")
	require.True(t, ok)
	assert.Equal(t, "los-angeles-clippers", clippers.ID)

	unknown, ok := r.ResolvePair("Seattle", "Storm")
	require.False(t, ok)
	assert.Equal(t, "seattle-storm", unknown.ID)
	assert.Equal(t, DivisionUnknown, unknown.Division)
}

func TestResolver_PortlandLogoKey(t *testing.T) {
	t.Parallel()

	got, _ := NewResolver().Resolve("Trail Blazers")
	if got.LogoKey != "portland-trailblazers-logo" {
		t.Fatalf("expected portland logo key, got=%s", got.LogoKey)
	}
}

func TestDivisionForMarket(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DivisionAtlantic, DivisionForMarket("Boston"))
	assert.Equal(t, DivisionPacific, DivisionForMarket("Los Angeles"))
	assert.Equal(t, DivisionPacific, DivisionForMarket("LA"))
	assert.Equal(t, DivisionNorthwest, DivisionForMarket("oklahoma city"))
	assert.Equal(t, DivisionUnknown, DivisionForMarket("Seattle"))
}

func TestResolver_AllFranchisesDistinct(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	seen := make(map[string]struct{}, len(franchises))
	for _, f := range franchises {
		got, ok := r.ResolvePair(f.market, f.nickname)
		require.True(t, ok, "%s %s", f.market, f.nickname)
		if _, dup := seen[got.ID]; dup {
			t.Fatalf("duplicate canonical id %s", got.ID)
		}
		seen[got.ID] = struct{}{}
	}
	if len(seen) != 30 {
		t.Fatalf("expected 30 franchises, got=%d", len(seen))
	}
}

func TestSlug_KeepsPunctuation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "st.-louis-bombers", Slug("  St. Louis   Bombers "))
	assert.Equal(t, "seattle-supersonics", Slug("Seattle SuperSonics"))
	assert.Equal(t, "", Slug("   "))
}

func TestResolver_PunctuatedFallback(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	got, ok := r.Resolve("St. Louis Bombers")
	require.False(t, ok)
	assert.Equal(t, "st.-louis-bombers", got.ID)

	again, ok := r.Resolve(got.ID)
	require.False(t, ok)
	assert.Equal(t, got.ID, again.ID)

	clippers, ok := r.Resolve("L.A. Clippers")
	require.True(t, ok, "punctuation must not defeat the lookup tables")
	assert.Equal(t, "los-angeles-clippers", clippers.ID)
}

func TestFranchiseTable_Valid(t *testing.T) {
	t.Parallel()

	for _, f := range franchises {
		require.NoError(t, f.team().Validate(), "%s %s", f.market, f.nickname)
	}
	assert.NotPanics(t, func() { NewResolver() })
}

func TestTeam_Validate(t *testing.T) {
	t.Parallel()

	valid := Team{ID: "boston-celtics", Name: "Boston Celtics", Conference: ConferenceEastern, Division: DivisionAtlantic}
	require.NoError(t, valid.Validate())

	fallback, _ := NewResolver().Resolve("Seattle SuperSonics")
	require.NoError(t, fallback.Validate())

	cases := map[string]Team{
		"missing id":          {Name: "Boston Celtics", Conference: ConferenceEastern, Division: DivisionAtlantic},
		"id not a slug":       {ID: "Boston Celtics", Name: "Boston Celtics", Conference: ConferenceEastern, Division: DivisionAtlantic},
		"missing name":        {ID: "boston-celtics", Conference: ConferenceEastern, Division: DivisionAtlantic},
		"division conference": {ID: "boston-celtics", Name: "Boston Celtics", Conference: ConferenceWestern, Division: DivisionAtlantic},
	}
	for name, tm := range cases {
		assert.Error(t, tm.Validate(), name)
	}
}
