// Package coverage computes pairwise decay-based coverage between candidate
// sensor positions and data sites. The coverage matrix is built once per
// (site set, decay parameter) pair and shared read-only by every fitness
// evaluation; building it is O(N^2) while each evaluation that reuses it
// is O(N).
package coverage

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// InvalidParameterError indicates an invalid coverage or weight input,
// detected before any fitness evaluation.
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return "invalid parameter " + e.Param + ": " + e.Reason
}

// DistanceMatrix computes the pairwise Euclidean distance matrix between
// one set of locations and itself.
func DistanceMatrix(x, y []float64) (*mat.Dense, error) {
	return DistanceMatrixBetween(x, y, x, y)
}

// DistanceMatrixBetween computes the M x N matrix of distances from M sensor
// positions to N data sites.
func DistanceMatrixBetween(sensorX, sensorY, siteX, siteY []float64) (*mat.Dense, error) {
	if len(sensorX) != len(sensorY) {
		return nil, &InvalidParameterError{
			Param:  "sensor coordinates",
			Reason: fmt.Sprintf("mismatched lengths: x=%d, y=%d", len(sensorX), len(sensorY)),
		}
	}
	if len(siteX) != len(siteY) {
		return nil, &InvalidParameterError{
			Param:  "site coordinates",
			Reason: fmt.Sprintf("mismatched lengths: x=%d, y=%d", len(siteX), len(siteY)),
		}
	}
	if len(sensorX) == 0 || len(siteX) == 0 {
		return nil, &InvalidParameterError{Param: "coordinates", Reason: "must not be empty"}
	}

	d := mat.NewDense(len(sensorX), len(siteX), nil)
	for i := range sensorX {
		for j := range siteX {
			dx := sensorX[i] - siteX[j]
			dy := sensorY[i] - siteY[j]
			d.Set(i, j, math.Hypot(dx, dy))
		}
	}
	return d, nil
}

// Matrix is a precomputed coverage matrix: entry (i, j) is the coverage
// provided at site j by a sensor at position i.
type Matrix struct {
	values *mat.Dense
	decay  Decay
}

// Build computes the square coverage matrix for a single site set, where
// every site is also a candidate sensor position.
func Build(x, y []float64, decay Decay) (*Matrix, error) {
	return BuildBetween(x, y, x, y, decay)
}

// BuildBetween computes the coverage matrix for distinct sensor and site sets.
func BuildBetween(sensorX, sensorY, siteX, siteY []float64, decay Decay) (*Matrix, error) {
	if decay == nil {
		return nil, &InvalidParameterError{Param: "decay", Reason: "is required"}
	}
	distances, err := DistanceMatrixBetween(sensorX, sensorY, siteX, siteY)
	if err != nil {
		return nil, err
	}

	rows, cols := distances.Dims()
	values := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			values.Set(i, j, decay.Apply(distances.At(i, j)))
		}
	}
	return &Matrix{values: values, decay: decay}, nil
}

// NSensors returns the number of candidate sensor positions (rows)
func (m *Matrix) NSensors() int {
	rows, _ := m.values.Dims()
	return rows
}

// NSites returns the number of data sites (columns)
func (m *Matrix) NSites() int {
	_, cols := m.values.Dims()
	return cols
}

// At returns the coverage at site j due to a sensor at position i
func (m *Matrix) At(i, j int) float64 {
	return m.values.At(i, j)
}

// Decay returns the decay this matrix was built with
func (m *Matrix) Decay() Decay {
	return m.decay
}

// ForPlacement returns the per-site coverage vector induced by a placement:
// each site is covered by its best (maximal-coverage) selected sensor.
// An all-false placement yields the zero vector, which is valid.
func (m *Matrix) ForPlacement(placement []bool) ([]float64, error) {
	if len(placement) != m.NSensors() {
		return nil, &InvalidParameterError{
			Param:  "placement",
			Reason: fmt.Sprintf("length %d does not match %d sensor positions", len(placement), m.NSensors()),
		}
	}

	out := make([]float64, m.NSites())
	for i, placed := range placement {
		if !placed {
			continue
		}
		row := m.values.RawRowView(i)
		for j, v := range row {
			if v > out[j] {
				out[j] = v
			}
		}
	}
	return out, nil
}
