package forecast

// WhenForecast is the distribution of the simulated day on which remaining work completes.
type WhenForecast struct {
	dist          distribution
	numberOfItems int
}

// NewWhenForecast builds a forecast from a histogram keyed by completion day.
// With zero remaining items the forecast is degenerate: all mass on day 0.
func NewWhenForecast(outcomes map[int]int, initialRemainingItems int) *WhenForecast {
	if initialRemainingItems <= 0 {
		return &WhenForecast{dist: newDistribution(map[int]int{0: 1})}
	}

	return &WhenForecast{
		dist:          newDistribution(outcomes),
		numberOfItems: initialRemainingItems,
	}
}

// NumberOfItems is the remaining item count the forecast was simulated for.
func (f *WhenForecast) NumberOfItems() int {
	return f.numberOfItems
}

// Trials is the number of trials recorded in the forecast.
func (f *WhenForecast) Trials() int {
	return f.dist.trials
}

// Outcomes returns a copy of the underlying histogram.
func (f *WhenForecast) Outcomes() map[int]int {
	return f.dist.copyOutcomes()
}

// Empty reports whether the forecast carries no trials, e.g. because the team was skipped.
func (f *WhenForecast) Empty() bool {
	return f.dist.empty()
}

// Degenerate reports whether there was no work left to simulate.
func (f *WhenForecast) Degenerate() bool {
	return f.numberOfItems == 0
}

// Percentile returns the smallest day by which at least p percent of trials had finished.
func (f *WhenForecast) Percentile(p float64) (day int, ok bool) {
	return f.dist.percentile(p)
}

// Likelihood returns the probability in percent (0..100) of finishing within daysFromNow days.
func (f *WhenForecast) Likelihood(daysFromNow int) float64 {
	if daysFromNow < 0 {
		return 0
	}
	if !f.dist.empty() && daysFromNow >= f.dist.max() {
		return 100
	}
	return f.dist.cdf(daysFromNow) * 100
}
