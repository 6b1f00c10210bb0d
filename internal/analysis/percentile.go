package analysis

import "sort"

// Summary is a nearest-rank percentile summary of a duration sample set.
type Summary struct {
	Count    int
	MeanMs   float64
	MedianMs int64
	P90Ms    int64
	P95Ms    int64
	P99Ms    int64
}

// Summarize computes count, mean, and nearest-rank percentiles over the
// samples. The second return value is false for an empty sample set; callers
// must treat that as "no data" rather than a zero summary. The input slice
// is not modified.
func Summarize(samples []int64) (Summary, bool) {
	if len(samples) == 0 {
		return Summary{}, false
	}

	sorted := make([]int64, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum int64
	for _, v := range sorted {
		sum += v
	}

	return Summary{
		Count:    len(sorted),
		MeanMs:   float64(sum) / float64(len(sorted)),
		MedianMs: percentileSorted(sorted, 50),
		P90Ms:    percentileSorted(sorted, 90),
		P95Ms:    percentileSorted(sorted, 95),
		P99Ms:    percentileSorted(sorted, 99),
	}, true
}

// percentileSorted selects the nearest-rank sample for percentile k from an
// ascending slice: index (n-1)*k/100 in integer arithmetic. No
// interpolation; for 7 samples, p90 lands on index 5.
func percentileSorted(sorted []int64, k int) int64 {
	idx := (len(sorted) - 1) * k / 100
	return sorted[idx]
}
