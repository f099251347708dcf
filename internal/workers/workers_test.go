package workers

import (
	"os"
	"runtime"
	"testing"
)

func TestCount(t *testing.T) {
	if err := os.Unsetenv("FRAME_WORKERS"); err != nil {
		t.Fatalf("failed to unset FRAME_WORKERS: %v", err)
	}

	available := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		want       int
	}{
		{"CPU bound", 1.0, 0, available},
		{"Limit respected", 1.0, 1, 1},
		{"Zero multiplier floors at one", 0.0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.multiplier, tt.limit); got != tt.want {
				t.Errorf("Count(%v, %d) = %d, want %d", tt.multiplier, tt.limit, got, tt.want)
			}
		})
	}
}

func TestCountOverride(t *testing.T) {
	t.Setenv("FRAME_WORKERS", "3")

	if got := Count(1.0, 0); got != 3 {
		t.Errorf("Count with FRAME_WORKERS=3 = %d, want 3", got)
	}

	// Override still capped by an explicit limit.
	if got := Count(1.0, 2); got != 2 {
		t.Errorf("Count with FRAME_WORKERS=3 and limit 2 = %d, want 2", got)
	}
}

func TestCountInvalidOverride(t *testing.T) {
	t.Setenv("FRAME_WORKERS", "banana")

	want := runtime.GOMAXPROCS(0)
	if got := ForCPU(0); got != want {
		t.Errorf("ForCPU with invalid override = %d, want %d", got, want)
	}
}
