package effects

import (
	"math/rand"
	"testing"
)

func TestSelectorUniformCoverage(t *testing.T) {
	s := NewSelector(nil, rand.New(rand.NewSource(42)))

	kinds := s.Kinds()
	if len(kinds) != 14 {
		t.Fatalf("registered kind count = %d, want 14", len(kinds))
	}

	const draws = 14000
	counts := make(map[Kind]int, len(kinds))
	for i := 0; i < draws; i++ {
		counts[s.Choose()]++
	}

	expected := draws / len(kinds)
	for _, k := range kinds {
		got := counts[k]
		// Loose uniformity bound: each kind within 20% of its expectation.
		if got < expected*8/10 || got > expected*12/10 {
			t.Errorf("kind %s drawn %d times, expected ~%d", k, got, expected)
		}
	}

	if _, ok := counts[Plain]; ok {
		t.Error("selector drew Plain, which is not part of the rotation")
	}
}

func TestSelectorCustomKinds(t *testing.T) {
	s := NewSelector([]Kind{Wipe}, rand.New(rand.NewSource(1)))
	for i := 0; i < 10; i++ {
		if k := s.Choose(); k != Wipe {
			t.Fatalf("Choose() = %v, want Wipe", k)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{AlphaDissolve, "alpha_dissolve"},
		{BarnDoorClose, "barn_door_close"},
		{Plain, "plain"},
		{Kind(99), "unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
