package forecast

import (
	"testing"
)

func TestWhenForecast_Likelihood(t *testing.T) {
	f := NewWhenForecast(map[int]int{10: 2, 12: 5, 15: 3}, 8)

	tests := []struct {
		days int
		want float64
	}{
		{-1, 0},
		{0, 0},
		{9, 0},
		{10, 20},
		{11, 20},
		{12, 70},
		{14, 70},
		{15, 100},
		{400, 100},
	}

	for _, tt := range tests {
		if got := f.Likelihood(tt.days); got != tt.want {
			t.Errorf("Likelihood(%d) = %v, want %v", tt.days, got, tt.want)
		}
	}
}

func TestWhenForecast_PercentileMatchesLikelihood(t *testing.T) {
	f := NewWhenForecast(map[int]int{3: 7, 4: 11, 8: 40, 9: 22, 20: 20}, 30)

	prev := 0
	for p := 1.0; p <= 100; p++ {
		day, ok := f.Percentile(p)
		if !ok {
			t.Fatalf("Percentile(%v) undefined", p)
		}
		if day < prev {
			t.Fatalf("Percentile decreased at %v: %d < %d", p, day, prev)
		}
		if f.Likelihood(day)+1e-9 < p {
			t.Errorf("Likelihood(Percentile(%v)) = %v, want >= %v", p, f.Likelihood(day), p)
		}
		prev = day
	}

	prevLikelihood := 0.0
	for d := 0; d <= 25; d++ {
		l := f.Likelihood(d)
		if l < prevLikelihood {
			t.Fatalf("Likelihood decreased at day %d", d)
		}
		prevLikelihood = l
	}
}

func TestWhenForecast_Degenerate(t *testing.T) {
	f := NewWhenForecast(map[int]int{4: 10}, 0)

	if !f.Degenerate() || f.Empty() {
		t.Fatalf("Degenerate, Empty = %v, %v; want true, false", f.Degenerate(), f.Empty())
	}
	if day, ok := f.Percentile(95); !ok || day != 0 {
		t.Errorf("Percentile(95) = %d, %v; want 0, true", day, ok)
	}
	if got := f.Likelihood(0); got != 100 {
		t.Errorf("Likelihood(0) = %v, want 100", got)
	}
	if f.NumberOfItems() != 0 {
		t.Errorf("NumberOfItems() = %d, want 0", f.NumberOfItems())
	}
}

func TestWhenForecast_Empty(t *testing.T) {
	f := NewWhenForecast(nil, 12)

	if !f.Empty() || f.Degenerate() {
		t.Fatalf("Empty, Degenerate = %v, %v; want true, false", f.Empty(), f.Degenerate())
	}
	if _, ok := f.Percentile(50); ok {
		t.Error("Percentile on empty forecast should be undefined")
	}
	if got := f.Likelihood(1000); got != 0 {
		t.Errorf("Likelihood(1000) = %v, want 0", got)
	}
	if f.NumberOfItems() != 12 {
		t.Errorf("NumberOfItems() = %d, want 12", f.NumberOfItems())
	}
}
