package coverage

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestDistanceMatrixColinearPoints(t *testing.T) {
	x := []float64{0, 3, 6}
	y := []float64{0, 4, 8}

	d, err := DistanceMatrix(x, y)
	if err != nil {
		t.Fatalf("distance matrix failed: %v", err)
	}

	want := [][]float64{
		{0, 5, 10},
		{5, 0, 5},
		{10, 5, 0},
	}
	for i := range want {
		for j := range want[i] {
			if math.Abs(d.At(i, j)-want[i][j]) > 1e-12 {
				t.Fatalf("distance (%d,%d): expected %g, got %g", i, j, want[i][j], d.At(i, j))
			}
		}
	}
}

func TestDistanceMatrixBetweenRectangular(t *testing.T) {
	sensorX := []float64{0, 10}
	sensorY := []float64{0, 0}
	siteX := []float64{0, 3, 10}
	siteY := []float64{4, 4, 0}

	d, err := DistanceMatrixBetween(sensorX, sensorY, siteX, siteY)
	if err != nil {
		t.Fatalf("distance matrix failed: %v", err)
	}
	rows, cols := d.Dims()
	if rows != 2 || cols != 3 {
		t.Fatalf("expected a 2x3 matrix, got %dx%d", rows, cols)
	}
	if d.At(0, 0) != 4 || d.At(0, 1) != 5 || d.At(1, 2) != 0 {
		t.Fatalf("unexpected distances: %v %v %v", d.At(0, 0), d.At(0, 1), d.At(1, 2))
	}
}

func TestDistanceMatrixInvalidInputs(t *testing.T) {
	var paramErr *InvalidParameterError

	_, err := DistanceMatrixBetween([]float64{0, 1}, []float64{0}, []float64{0}, []float64{0})
	if !errors.As(err, &paramErr) {
		t.Fatalf("expected InvalidParameterError for mismatched lengths, got %v", err)
	}

	_, err = DistanceMatrix(nil, nil)
	if !errors.As(err, &paramErr) {
		t.Fatalf("expected InvalidParameterError for empty input, got %v", err)
	}
}

func TestBinaryDecayStrictBoundary(t *testing.T) {
	decay, err := NewBinaryDecay(5)
	if err != nil {
		t.Fatalf("failed to build decay: %v", err)
	}

	if got := decay.Apply(4.999); got != 1 {
		t.Fatalf("expected coverage inside the radius, got %g", got)
	}
	// A site exactly at the radius is not covered.
	if got := decay.Apply(5); got != 0 {
		t.Fatalf("expected no coverage at the boundary, got %g", got)
	}
	if got := decay.Apply(5.001); got != 0 {
		t.Fatalf("expected no coverage outside the radius, got %g", got)
	}
}

func TestExponentialDecay(t *testing.T) {
	decay, err := NewExponentialDecay(2)
	if err != nil {
		t.Fatalf("failed to build decay: %v", err)
	}

	if got := decay.Apply(0); got != 1 {
		t.Fatalf("expected full coverage at zero distance, got %g", got)
	}
	want := math.Exp(-2.5)
	if got := decay.Apply(5); math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected %g at distance 5, got %g", want, got)
	}
	if got := decay.Apply(1000); got <= 0 || got >= 1e-10 {
		t.Fatalf("expected tiny positive coverage far away, got %g", got)
	}
}

func TestDecayParamValidation(t *testing.T) {
	var paramErr *InvalidParameterError
	if _, err := NewBinaryDecay(0); !errors.As(err, &paramErr) {
		t.Fatalf("expected InvalidParameterError for zero radius, got %v", err)
	}
	if _, err := NewExponentialDecay(-1); !errors.As(err, &paramErr) {
		t.Fatalf("expected InvalidParameterError for negative theta, got %v", err)
	}
	if _, err := ParseDecay("gaussian", 1); !errors.As(err, &paramErr) {
		t.Fatalf("expected InvalidParameterError for unknown kind, got %v", err)
	}
}

func TestParseDecay(t *testing.T) {
	decay, err := ParseDecay("binary", 100)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if decay.Kind() != DecayKindBinary || decay.Param() != 100 {
		t.Fatalf("unexpected decay: %s %g", decay.Kind(), decay.Param())
	}

	decay, err = ParseDecay("exponential", 2.5)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if decay.Kind() != DecayKindExponential || decay.Param() != 2.5 {
		t.Fatalf("unexpected decay: %s %g", decay.Kind(), decay.Param())
	}
}

func TestForPlacementTakesBestSensorPerSite(t *testing.T) {
	decay, err := NewBinaryDecay(150)
	if err != nil {
		t.Fatalf("failed to build decay: %v", err)
	}
	// Three sites on a line, 100 apart: each sensor covers itself and its
	// direct neighbours.
	m, err := Build([]float64{0, 100, 200}, []float64{0, 0, 0}, decay)
	if err != nil {
		t.Fatalf("failed to build matrix: %v", err)
	}

	cov, err := m.ForPlacement([]bool{true, false, false})
	if err != nil {
		t.Fatalf("placement evaluation failed: %v", err)
	}
	if !reflect.DeepEqual(cov, []float64{1, 1, 0}) {
		t.Fatalf("expected [1 1 0], got %v", cov)
	}

	cov, err = m.ForPlacement([]bool{true, false, true})
	if err != nil {
		t.Fatalf("placement evaluation failed: %v", err)
	}
	if !reflect.DeepEqual(cov, []float64{1, 1, 1}) {
		t.Fatalf("expected [1 1 1], got %v", cov)
	}

	// Empty placements are valid and cover nothing.
	cov, err = m.ForPlacement([]bool{false, false, false})
	if err != nil {
		t.Fatalf("placement evaluation failed: %v", err)
	}
	if !reflect.DeepEqual(cov, []float64{0, 0, 0}) {
		t.Fatalf("expected zero coverage, got %v", cov)
	}

	if _, err := m.ForPlacement([]bool{true}); err == nil {
		t.Fatalf("expected an error for a mis-sized placement")
	}
}

func TestBuildBetweenSeparateSensorGrid(t *testing.T) {
	decay, err := NewBinaryDecay(5)
	if err != nil {
		t.Fatalf("failed to build decay: %v", err)
	}
	m, err := BuildBetween(
		[]float64{0, 100}, []float64{0, 0},
		[]float64{0, 3, 100}, []float64{4, 0, 3},
		decay,
	)
	if err != nil {
		t.Fatalf("failed to build matrix: %v", err)
	}
	if m.NSensors() != 2 || m.NSites() != 3 {
		t.Fatalf("expected a 2x3 matrix, got %dx%d", m.NSensors(), m.NSites())
	}
	if m.At(0, 0) != 1 || m.At(0, 1) != 1 || m.At(0, 2) != 0 {
		t.Fatalf("unexpected first sensor coverage: %v %v %v", m.At(0, 0), m.At(0, 1), m.At(0, 2))
	}
	if m.At(1, 2) != 1 || m.At(1, 0) != 0 {
		t.Fatalf("unexpected second sensor coverage: %v %v", m.At(1, 2), m.At(1, 0))
	}
}
