package livescore

import (
	"testing"

	"github.com/riskibarqy/hoops-feed/internal/domain/game"
)

func ptr(value string) *string {
	return &value
}

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		period int
		clock  *string
		want   string
	}{
		{period: 4, clock: nil, want: "FINAL"},
		{period: 4, clock: ptr("0:00"), want: "FINAL"},
		{period: 2, clock: nil, want: "HALF"},
		{period: 2, clock: ptr(""), want: "HALF"},
		{period: 3, clock: ptr("5:42"), want: "Q3 5:42"},
		{period: 1, clock: nil, want: "Q1 0:00"},
		{period: 4, clock: ptr("1:05"), want: "Q4 1:05"},
	}

	for _, tc := range cases {
		if got := StatusLabel(tc.period, tc.clock); got != tc.want {
			t.Fatalf("expected label=%q for period=%d, got=%q", tc.want, tc.period, got)
		}
	}
}

func TestStatusFromText(t *testing.T) {
	t.Parallel()

	if got := StatusFromText("In Play"); got != game.StatusInProgress {
		t.Fatalf("expected in progress, got=%s", got)
	}
	if got := StatusFromText("Finished"); got != game.StatusFinal {
		t.Fatalf("expected final, got=%s", got)
	}
}
