package forecast

import (
	"maps"
	"slices"
)

// distribution is an immutable empirical distribution built from an outcome histogram.
// values are sorted ascending; cumulative[i] is the trial count for outcomes <= values[i].
type distribution struct {
	outcomes   map[int]int
	values     []int
	cumulative []int
	trials     int
}

func newDistribution(outcomes map[int]int) distribution {
	d := distribution{outcomes: make(map[int]int, len(outcomes))}
	for v, c := range outcomes {
		if c <= 0 {
			continue
		}
		d.outcomes[v] = c
	}

	d.values = slices.Sorted(maps.Keys(d.outcomes))
	d.cumulative = make([]int, len(d.values))

	running := 0
	for i, v := range d.values {
		running += d.outcomes[v]
		d.cumulative[i] = running
	}
	d.trials = running

	return d
}

func (d distribution) empty() bool {
	return d.trials == 0
}

// percentile returns the smallest outcome whose cumulative share meets p percent.
func (d distribution) percentile(p float64) (int, bool) {
	if d.empty() {
		return 0, false
	}
	if p <= 0 {
		return d.values[0], true
	}

	threshold := p * float64(d.trials)
	for i, v := range d.values {
		if float64(d.cumulative[i])*100 >= threshold {
			return v, true
		}
	}
	return d.values[len(d.values)-1], true
}

// atLeast returns the largest outcome reached or exceeded in at least p percent of trials.
func (d distribution) atLeast(p float64) (int, bool) {
	if d.empty() {
		return 0, false
	}

	threshold := p * float64(d.trials)
	above := 0
	for i := len(d.values) - 1; i >= 0; i-- {
		above += d.outcomes[d.values[i]]
		if float64(above)*100 >= threshold {
			return d.values[i], true
		}
	}
	return d.values[0], true
}

// cdf returns the share of trials (0..1) with an outcome <= x.
func (d distribution) cdf(x int) float64 {
	if d.empty() {
		return 0
	}

	idx, found := slices.BinarySearch(d.values, x)
	if found {
		return float64(d.cumulative[idx]) / float64(d.trials)
	}
	if idx == 0 {
		return 0
	}
	return float64(d.cumulative[idx-1]) / float64(d.trials)
}

func (d distribution) probabilityOf(x int) float64 {
	if d.empty() {
		return 0
	}
	return float64(d.outcomes[x]) / float64(d.trials)
}

func (d distribution) max() int {
	if d.empty() {
		return 0
	}
	return d.values[len(d.values)-1]
}

func (d distribution) copyOutcomes() map[int]int {
	return maps.Clone(d.outcomes)
}
