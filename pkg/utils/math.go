package utils

// Min returns the minimum of two integers
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Clamp clamps a value between min and max
func Clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampFloat64 clamps a float64 value between min and max
func ClampFloat64(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Sum calculates the sum of a slice of float64 values
func Sum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

// ArgMax returns the index of the largest value, -1 for an empty slice.
// Ties go to the lowest index.
func ArgMax(values []float64) int {
	if len(values) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}

// Normalize returns values scaled so they sum to 1.
// A zero-sum input is returned unchanged (the caller decides whether that is an error).
func Normalize(values []float64) []float64 {
	total := Sum(values)
	out := make([]float64, len(values))
	if total == 0 {
		copy(out, values)
		return out
	}
	for i, v := range values {
		out[i] = v / total
	}
	return out
}
