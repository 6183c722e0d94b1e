package stats

import (
	"testing"
	"time"
)

func TestSnapToDay(t *testing.T) {
	ts := time.Date(2024, 5, 16, 14, 30, 0, 0, time.UTC)

	if got, want := SnapToStart(ts), time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("SnapToStart() = %v, want %v", got, want)
	}
	if got, want := SnapToEnd(ts), time.Date(2024, 5, 16, 23, 59, 59, 999999999, time.UTC); !got.Equal(want) {
		t.Errorf("SnapToEnd() = %v, want %v", got, want)
	}
	if !SnapToStart(time.Time{}).IsZero() || !SnapToEnd(time.Time{}).IsZero() {
		t.Error("zero time should stay zero")
	}
}

func TestAnalysisWindow_Days(t *testing.T) {
	w := NewAnalysisWindow(
		time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 7, 1, 0, 0, 0, time.UTC),
	)

	if got := len(w.Subdivide()); got != 7 {
		t.Errorf("len(Subdivide()) = %d, want 7", got)
	}

	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{"FirstDay", time.Date(2024, 3, 1, 0, 0, 1, 0, time.UTC), 0},
		{"LastDay", time.Date(2024, 3, 7, 23, 0, 0, 0, time.UTC), 6},
		{"OtherZone", time.Date(2024, 3, 3, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*3600)), 1},
		{"Before", time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC), -1},
		{"After", time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), -1},
		{"Zero", time.Time{}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.FindBucketIndex(tt.t); got != tt.want {
				t.Errorf("FindBucketIndex() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAnalysisWindow_Inverted(t *testing.T) {
	w := NewAnalysisWindow(
		time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	)

	if n := len(w.Subdivide()); n != 0 {
		t.Errorf("inverted window should be empty, got %d days", n)
	}
}
