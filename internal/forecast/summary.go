package forecast

import "time"

// DefaultPercentiles are the confidence levels reported to callers.
var DefaultPercentiles = []float64{50, 70, 85, 95}

// PercentileValue is one reported confidence level.
type PercentileValue struct {
	Percentile float64 `json:"percentile"`
	Value      int     `json:"value"`
}

type percentiler interface {
	Percentile(p float64) (int, bool)
}

// Percentiles evaluates f at each level, skipping levels that are undefined.
// Without explicit levels DefaultPercentiles is used.
func Percentiles(f percentiler, levels ...float64) []PercentileValue {
	if len(levels) == 0 {
		levels = DefaultPercentiles
	}

	out := make([]PercentileValue, 0, len(levels))
	for _, p := range levels {
		if v, ok := f.Percentile(p); ok {
			out = append(out, PercentileValue{Percentile: p, Value: v})
		}
	}
	return out
}

// Confidence reports, per level, how many items are finished with at least that confidence.
func Confidence(f *HowManyForecast, levels ...float64) []PercentileValue {
	if len(levels) == 0 {
		levels = DefaultPercentiles
	}

	out := make([]PercentileValue, 0, len(levels))
	for _, p := range levels {
		if v, ok := f.AtLeast(p); ok {
			out = append(out, PercentileValue{Percentile: p, Value: v})
		}
	}
	return out
}

// DaysBetween counts calendar days from now to target. Negative when target is in the past.
func DaysBetween(now, target time.Time) int {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// LikelihoodForDate is the probability in percent of being done by target.
func LikelihoodForDate(f Forecast, now, target time.Time) float64 {
	return f.Likelihood(DaysBetween(now, target))
}

// PercentileDate converts a percentile day into a calendar date relative to now.
func PercentileDate(f Forecast, p float64, now time.Time) (time.Time, bool) {
	day, ok := f.Percentile(p)
	if !ok {
		return time.Time{}, false
	}
	return now.AddDate(0, 0, day), true
}
