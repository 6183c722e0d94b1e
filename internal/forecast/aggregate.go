package forecast

import (
	"maps"
	"slices"
)

const likelihoodEpsilon = 1e-9

// Forecast is the read side shared by single-team and aggregated when-forecasts.
type Forecast interface {
	Percentile(p float64) (day int, ok bool)
	Likelihood(daysFromNow int) float64
	NumberOfItems() int
}

var (
	_ Forecast = (*WhenForecast)(nil)
	_ Forecast = (*AggregatedWhenForecast)(nil)
)

// AggregatedWhenForecast combines the when-forecasts of every team working on a feature.
// Teams are assumed to work in parallel and independently, so the feature is done by
// day d with probability Π P_team(done <= d).
type AggregatedWhenForecast struct {
	parts         []*WhenForecast
	days          []int
	numberOfItems int
	empty         bool
}

// Aggregate merges per-team forecasts for one feature.
//
// Degenerate parts (no work left for that team) do not constrain the result. Empty parts
// (team skipped, no trials) are ignored as long as any other team produced trials; if
// every team with work was skipped the aggregate is empty. Without any work at all the
// aggregate is degenerate at day 0.
func Aggregate(forecasts ...*WhenForecast) *AggregatedWhenForecast {
	agg := &AggregatedWhenForecast{}

	skipped := false
	daySet := make(map[int]struct{})
	for _, f := range forecasts {
		if f == nil {
			continue
		}
		agg.numberOfItems += f.NumberOfItems()

		switch {
		case f.Degenerate():
			continue
		case f.Empty():
			skipped = true
			continue
		}

		agg.parts = append(agg.parts, f)
		for _, d := range f.dist.values {
			daySet[d] = struct{}{}
		}
	}

	agg.days = slices.Sorted(maps.Keys(daySet))
	agg.empty = len(agg.parts) == 0 && skipped

	return agg
}

// Parts returns the team forecasts that shape the aggregate.
func (a *AggregatedWhenForecast) Parts() []*WhenForecast {
	return slices.Clone(a.parts)
}

// NumberOfItems is the remaining item count summed over all teams.
func (a *AggregatedWhenForecast) NumberOfItems() int {
	return a.numberOfItems
}

// Empty reports whether no team contributed any trials.
func (a *AggregatedWhenForecast) Empty() bool {
	return a.empty
}

// Likelihood returns the probability in percent that every team has finished within daysFromNow.
func (a *AggregatedWhenForecast) Likelihood(daysFromNow int) float64 {
	if daysFromNow < 0 || a.empty {
		return 0
	}

	combined := 1.0
	for _, part := range a.parts {
		combined *= part.Likelihood(daysFromNow) / 100
	}
	return combined * 100
}

// Percentile returns the smallest day by which all teams are done with at least p percent probability.
func (a *AggregatedWhenForecast) Percentile(p float64) (int, bool) {
	if a.empty {
		return 0, false
	}
	if len(a.parts) == 0 {
		return 0, true
	}

	for _, d := range a.days {
		if a.Likelihood(d)+likelihoodEpsilon >= p {
			return d, true
		}
	}
	return a.days[len(a.days)-1], true
}
