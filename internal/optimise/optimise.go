// Package optimise holds the types shared by the placement optimisers:
// progress reporting, sensor-count validation, placement mask helpers and
// the result structures the optimisers produce.
package optimise

import (
	"fmt"
	"sort"
)

// ProgressFunc is called synchronously by an optimiser after each unit of
// work: once per placed sensor for greedy search, once per generation for
// population search. done and total count those units.
type ProgressFunc func(done, total int)

// InvalidSensorCountError indicates a requested sensor count outside the
// feasible range for the candidate site set.
type InvalidSensorCountError struct {
	NSensors int
	NSites   int
}

func (e *InvalidSensorCountError) Error() string {
	return fmt.Sprintf("invalid sensor count %d: must be between 1 and %d", e.NSensors, e.NSites)
}

// ValidateSensorCount checks that nSensors is feasible for nSites sites
func ValidateSensorCount(nSensors, nSites int) error {
	if nSensors < 1 || nSensors > nSites {
		return &InvalidSensorCountError{NSensors: nSensors, NSites: nSites}
	}
	return nil
}

// MaskFromIndices converts a list of site indices into a boolean placement
// mask of length n. Duplicate indices collapse onto the same slot.
func MaskFromIndices(indices []int, n int) ([]bool, error) {
	mask := make([]bool, n)
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("site index %d out of range [0, %d)", idx, n)
		}
		mask[idx] = true
	}
	return mask, nil
}

// IndicesFromMask returns the selected site indices in ascending order
func IndicesFromMask(mask []bool) []int {
	indices := make([]int, 0)
	for i, selected := range mask {
		if selected {
			indices = append(indices, i)
		}
	}
	sort.Ints(indices)
	return indices
}
