package calculator

import "math"

// CalculateMeanStd computes the mean and population standard deviation (N denominator).
// A single value has a standard deviation of 0.
func CalculateMeanStd(data []float64) (mean, std float64) {
	if len(data) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, v := range data {
		sum += v
	}
	mean = sum / float64(len(data))

	if len(data) == 1 {
		return mean, 0
	}

	varianceSum := 0.0
	for _, v := range data {
		varianceSum += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(varianceSum / float64(len(data)))
}
