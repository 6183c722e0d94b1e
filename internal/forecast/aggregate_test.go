package forecast

import (
	"math"
	"testing"
)

func TestAggregate_TwoConstantTeams(t *testing.T) {
	agg := Aggregate(
		NewWhenForecast(map[int]int{20: 100}, 20),
		NewWhenForecast(map[int]int{15: 100}, 15),
	)

	for _, p := range DefaultPercentiles {
		if day, ok := agg.Percentile(p); !ok || day != 20 {
			t.Errorf("Percentile(%v) = %d, %v; want 20, true", p, day, ok)
		}
	}
	if agg.NumberOfItems() != 35 {
		t.Errorf("NumberOfItems() = %d, want 35", agg.NumberOfItems())
	}
	if got := agg.Likelihood(17); got != 0 {
		t.Errorf("Likelihood(17) = %v, want 0", got)
	}
}

func TestAggregate_LikelihoodIsProduct(t *testing.T) {
	a := NewWhenForecast(map[int]int{5: 1, 10: 1}, 3)
	b := NewWhenForecast(map[int]int{4: 1, 6: 1, 8: 2}, 4)
	agg := Aggregate(a, b)

	for d := 0; d <= 12; d++ {
		want := a.Likelihood(d) * b.Likelihood(d) / 100
		if got := agg.Likelihood(d); math.Abs(got-want) > 1e-9 {
			t.Errorf("Likelihood(%d) = %v, want %v", d, got, want)
		}
		if agg.Likelihood(d) > a.Likelihood(d) || agg.Likelihood(d) > b.Likelihood(d) {
			t.Errorf("aggregate at day %d is more likely than a single team", d)
		}
	}

	// Day 6: a=50%, b=50% -> 25%. Day 8: 50% * 100% -> 50%. Day 10: 100%.
	tests := []struct {
		p    float64
		want int
	}{
		{25, 6},
		{26, 8},
		{50, 8},
		{51, 10},
		{100, 10},
	}
	for _, tt := range tests {
		if got, _ := agg.Percentile(tt.p); got != tt.want {
			t.Errorf("Percentile(%v) = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestAggregate_SkippedAndDegenerateParts(t *testing.T) {
	skipped := NewWhenForecast(nil, 20)
	done := NewWhenForecast(nil, 0)
	busy := NewWhenForecast(map[int]int{15: 10}, 15)

	t.Run("SkippedIgnoredWhenOthersRan", func(t *testing.T) {
		agg := Aggregate(skipped, busy, done)
		if agg.Empty() {
			t.Fatal("aggregate should not be empty")
		}
		if day, _ := agg.Percentile(85); day != 15 {
			t.Errorf("Percentile(85) = %d, want 15", day)
		}
		if agg.NumberOfItems() != 35 {
			t.Errorf("NumberOfItems() = %d, want 35", agg.NumberOfItems())
		}
		if len(agg.Parts()) != 1 {
			t.Errorf("Parts() = %d, want 1", len(agg.Parts()))
		}
	})

	t.Run("AllSkipped", func(t *testing.T) {
		agg := Aggregate(skipped, done)
		if !agg.Empty() {
			t.Fatal("aggregate should be empty")
		}
		if _, ok := agg.Percentile(50); ok {
			t.Error("Percentile on empty aggregate should be undefined")
		}
		if agg.Likelihood(500) != 0 {
			t.Errorf("Likelihood(500) = %v, want 0", agg.Likelihood(500))
		}
		if agg.NumberOfItems() != 20 {
			t.Errorf("NumberOfItems() = %d, want 20", agg.NumberOfItems())
		}
	})

	t.Run("NoWork", func(t *testing.T) {
		for _, agg := range []*AggregatedWhenForecast{Aggregate(), Aggregate(done, nil)} {
			if day, ok := agg.Percentile(95); !ok || day != 0 {
				t.Errorf("Percentile(95) = %d, %v; want 0, true", day, ok)
			}
			if agg.Likelihood(0) != 100 {
				t.Errorf("Likelihood(0) = %v, want 100", agg.Likelihood(0))
			}
		}
	})
}
