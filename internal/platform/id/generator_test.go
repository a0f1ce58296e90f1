package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_NewID(t *testing.T) {
	t.Parallel()

	g := NewUUIDGenerator()
	first, err := g.NewID()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("expected uuid, got %q: %v", first, err)
	}
	second, _ := g.NewID()
	if first == second {
		t.Fatalf("expected distinct ids")
	}
}

func TestSequence_RepeatsLast(t *testing.T) {
	t.Parallel()

	s := NewSequence("a", "b")
	for _, want := range []string{"a", "b", "b"} {
		got, err := s.NewID()
		if err != nil || got != want {
			t.Fatalf("expected %s, got %s err=%v", want, got, err)
		}
	}
}
