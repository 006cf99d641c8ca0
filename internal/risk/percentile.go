package risk

import "sort"

// Percentile returns the p-th percentile (0-100) of sorted values using linear
// interpolation between the two bracketing order statistics. Empty input yields 0.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}

	index := p / 100 * float64(n-1)
	lower := int(index)
	upper := lower + 1
	if upper > n-1 {
		upper = n - 1
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// sortedValues extracts one field across all records and sorts it ascending
func sortedValues(records []SignalRecord, f Field) []float64 {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.Value(f)
	}
	sort.Float64s(values)
	return values
}
