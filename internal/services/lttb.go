package services

import "math"

// LTTBThreshold is the point count above which time series are downsampled
const LTTBThreshold = 2000

// LTTB selects threshold indices of ys with the Largest-Triangle-Three-Buckets
// algorithm, using the index as the x coordinate. The first and last points
// are always kept. Series at or below the threshold, or thresholds below 3,
// return every index.
func LTTB(ys []float64, threshold int) []int {
	n := len(ys)
	if n <= threshold || threshold < 3 {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}

	sampled := make([]int, 0, threshold)
	sampled = append(sampled, 0)

	bucketSize := float64(n-2) / float64(threshold-2)
	prev := 0

	for i := 0; i < threshold-2; i++ {
		start := int(math.Floor(float64(i)*bucketSize)) + 1
		end := min(int(math.Floor(float64(i+1)*bucketSize))+1, n-1)

		nextStart := int(math.Floor(float64(i+1)*bucketSize)) + 1
		nextEnd := min(int(math.Floor(float64(i+2)*bucketSize))+1, n)
		count := nextEnd - nextStart
		if count <= 0 {
			count = 1
			nextEnd = nextStart + 1
		}

		var avgX, avgY float64
		for j := nextStart; j < nextEnd; j++ {
			avgX += float64(j)
			avgY += ys[j]
		}
		avgX /= float64(count)
		avgY /= float64(count)

		maxArea := -1.0
		maxIndex := start
		px, py := float64(prev), ys[prev]
		for j := start; j < end; j++ {
			area := math.Abs((px-avgX)*(ys[j]-py)-(px-float64(j))*(avgY-py)) * 0.5
			if area > maxArea {
				maxArea = area
				maxIndex = j
			}
		}

		sampled = append(sampled, maxIndex)
		prev = maxIndex
	}

	return append(sampled, n-1)
}
