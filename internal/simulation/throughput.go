package simulation

import (
	"fmt"
	"slices"
	"time"

	"mcs-forecast/internal/stats"
)

// Throughput is an immutable series of items completed per day, oldest first.
type Throughput struct {
	counts []int
	total  int
}

// NewThroughput copies counts into a new series.
func NewThroughput(counts []int) Throughput {
	return Throughput{counts: slices.Clone(counts), total: sumInts(counts)}
}

// NewThroughputFromCompletions buckets completion timestamps into daily counts over the
// inclusive day range [start, end]. Completions outside the range are dropped.
func NewThroughputFromCompletions(completions []time.Time, start, end time.Time) Throughput {
	window := stats.NewAnalysisWindow(start, end)

	days := len(window.Subdivide())
	if days == 0 {
		return NewThroughput(nil)
	}

	buckets := make([]int, days)
	for _, c := range completions {
		if idx := window.FindBucketIndex(c); idx >= 0 && idx < days {
			buckets[idx]++
		}
	}

	return Throughput{counts: buckets, total: sumInts(buckets)}
}

// History is the number of days in the series.
func (t Throughput) History() int {
	return len(t.counts)
}

// Total is the number of items completed over the whole series.
func (t Throughput) Total() int {
	return t.total
}

// Counts returns a copy of the daily series.
func (t Throughput) Counts() []int {
	return slices.Clone(t.counts)
}

// OnDay returns the count recorded on day d (0-based).
func (t Throughput) OnDay(d int) (int, error) {
	if d < 0 || d >= len(t.counts) {
		return 0, fmt.Errorf("%w: day %d outside throughput history of %d days", ErrInvalidInput, d, len(t.counts))
	}
	return t.counts[d], nil
}

// Validate rejects series that cannot be sampled.
func (t Throughput) Validate() error {
	if len(t.counts) == 0 {
		return fmt.Errorf("%w: throughput history is empty", ErrInvalidInput)
	}
	for day, c := range t.counts {
		if c < 0 {
			return fmt.Errorf("%w: negative throughput %d on day %d", ErrInvalidInput, c, day)
		}
	}
	return nil
}

// ThroughputSummary describes a throughput series for reporting.
type ThroughputSummary struct {
	History  int     `json:"history_days"`
	Total    int     `json:"total_items"`
	ZeroDays int     `json:"zero_days"`
	Average  float64 `json:"average_per_day"`
	Median   float64 `json:"median_per_day"`
	FatTail  float64 `json:"fat_tail_ratio"`
	Sampling bool    `json:"sampling_possible"`
}

// Summary reports the shape of the series.
func (t Throughput) Summary() ThroughputSummary {
	s := stats.Summarize(t.counts)
	return ThroughputSummary{
		History:  s.Days,
		Total:    s.Total,
		ZeroDays: s.ZeroDays,
		Average:  s.Mean,
		Median:   s.Median,
		FatTail:  s.FatTail,
		Sampling: t.Validate() == nil && t.total > 0,
	}
}

func sumInts(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
