package forecast

// HowManyForecast is the distribution of items completed within a fixed number of days.
type HowManyForecast struct {
	dist distribution
	days int
}

// NewHowManyForecast builds a forecast from a histogram keyed by items completed.
// The histogram is copied; later changes to it do not affect the forecast.
func NewHowManyForecast(outcomes map[int]int, days int) *HowManyForecast {
	return &HowManyForecast{
		dist: newDistribution(outcomes),
		days: days,
	}
}

// Days is the number of simulated days each trial covered.
func (f *HowManyForecast) Days() int {
	return f.days
}

// Trials is the number of trials recorded in the forecast.
func (f *HowManyForecast) Trials() int {
	return f.dist.trials
}

// Outcomes returns a copy of the underlying histogram.
func (f *HowManyForecast) Outcomes() map[int]int {
	return f.dist.copyOutcomes()
}

// Percentile returns the smallest item count v such that at least p percent of
// trials completed v items or fewer. ok is false when no trial was recorded.
func (f *HowManyForecast) Percentile(p float64) (value int, ok bool) {
	return f.dist.percentile(p)
}

// AtLeast returns the largest item count that was reached or exceeded in at least
// p percent of trials, i.e. "with p% confidence we finish at least this many".
func (f *HowManyForecast) AtLeast(p float64) (value int, ok bool) {
	return f.dist.atLeast(p)
}

// ProbabilityOf returns the fraction of trials (0..1) that completed exactly value items.
func (f *HowManyForecast) ProbabilityOf(value int) float64 {
	return f.dist.probabilityOf(value)
}

// PredictabilityScore is AtLeast(95) divided by AtLeast(50). Values close to 1 mean a
// narrow, predictable distribution. It is 0 when the median is 0 or undefined.
func (f *HowManyForecast) PredictabilityScore() float64 {
	p50, ok := f.AtLeast(50)
	if !ok || p50 == 0 {
		return 0
	}
	p95, _ := f.AtLeast(95)
	return float64(p95) / float64(p50)
}
