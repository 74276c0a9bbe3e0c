package core

import "math"

// Mean returns the arithmetic mean of xs. The second return value is
// false when xs is empty; callers must not substitute a silent zero.
func Mean(xs []int64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	var sum int64
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs)), true
}

// StdDev returns the population standard deviation of xs. The second
// return value is false when xs is empty.
func StdDev(xs []int64) (float64, bool) {
	mean, ok := Mean(xs)
	if !ok {
		return 0, false
	}
	var sq float64
	for _, x := range xs {
		d := float64(x) - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(xs))), true
}
