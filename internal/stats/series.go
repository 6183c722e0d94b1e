package stats

import "slices"

// SeriesSummary describes a series of daily counts.
type SeriesSummary struct {
	Days     int
	Total    int
	ZeroDays int
	Mean     float64
	Median   float64
	FatTail  float64
}

// Summarize computes the location and spread figures reported for a throughput series.
func Summarize(counts []int) SeriesSummary {
	s := SeriesSummary{Days: len(counts)}
	if s.Days == 0 {
		return s
	}

	for _, c := range counts {
		s.Total += c
		if c == 0 {
			s.ZeroDays++
		}
	}
	s.Mean = float64(s.Total) / float64(s.Days)
	s.Median = CalculateMedianDiscrete(counts)
	s.FatTail = CalculateFatTail(counts)
	return s
}

// CalculateMedianDiscrete returns the median of values without reordering them.
func CalculateMedianDiscrete(values []int) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
