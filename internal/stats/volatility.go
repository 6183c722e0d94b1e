package stats

import "slices"

// CalculateFatTail calculates the P98/P50 ratio of a daily throughput series.
// A ratio above 5.6 indicates a fat-tailed, unpredictable delivery process.
func CalculateFatTail(counts []int) float64 {
	if len(counts) == 0 {
		return 0
	}
	floats := make([]float64, len(counts))
	for i, c := range counts {
		floats[i] = float64(c)
	}
	slices.Sort(floats)

	p50 := floats[int(float64(len(floats))*0.50)]
	p98 := floats[int(float64(len(floats))*0.98)]

	if p50 == 0 {
		if p98 > 0 {
			return 10.0 // Symbolic high value for sparse processes
		}
		return 1.0
	}
	return p98 / p50
}
