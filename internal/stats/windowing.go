package stats

import (
	"math"
	"time"
)

// AnalysisWindow is the inclusive range of calendar days a throughput history is bucketed over.
type AnalysisWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewAnalysisWindow creates a window snapped to the start of start's day and the end of end's day.
func NewAnalysisWindow(start, end time.Time) AnalysisWindow {
	return AnalysisWindow{
		Start: SnapToStart(start),
		End:   SnapToEnd(end),
	}
}

// SnapToStart normalizes a timestamp to the beginning of its day (0:00:00).
func SnapToStart(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SnapToEnd normalizes a timestamp to the last nanosecond of its day.
func SnapToEnd(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// Subdivide returns the start of every day within the window.
func (w AnalysisWindow) Subdivide() []time.Time {
	var days []time.Time
	for current := w.Start; current.Before(w.End); current = current.AddDate(0, 0, 1) {
		days = append(days, current)
	}
	return days
}

// FindBucketIndex returns the index of the day containing t, or -1 if t is outside the window.
func (w AnalysisWindow) FindBucketIndex(t time.Time) int {
	if t.IsZero() {
		return -1
	}

	tNorm := SnapToStart(t.In(w.Start.Location()))
	if tNorm.Before(w.Start) || tNorm.After(w.End) {
		return -1
	}

	// Rounded so a DST shift inside the window does not move the bucket.
	return int(math.Round(tNorm.Sub(w.Start).Hours() / 24))
}
