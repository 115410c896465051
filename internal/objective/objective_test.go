package objective

import (
	"errors"
	"math"
	"testing"

	"github.com/urbansense/placement-core/internal/coverage"
	"github.com/urbansense/placement-core/internal/sites"
)

func testSites(t *testing.T, columns map[string][]float64) *sites.SiteSet {
	t.Helper()
	set, err := sites.New("test", []sites.Site{
		{ID: "a", X: 0, Y: 0},
		{ID: "b", X: 100, Y: 0},
		{ID: "c", X: 300, Y: 0},
	}, columns)
	if err != nil {
		t.Fatalf("failed to build site set: %v", err)
	}
	return set
}

func testMatrix(t *testing.T, set *sites.SiteSet) *coverage.Matrix {
	t.Helper()
	decay, err := coverage.NewBinaryDecay(150)
	if err != nil {
		t.Fatalf("failed to build decay: %v", err)
	}
	m, err := coverage.Build(set.X(), set.Y(), decay)
	if err != nil {
		t.Fatalf("failed to build coverage matrix: %v", err)
	}
	return m
}

func TestLabelDefaultsToSource(t *testing.T) {
	col := NewColumn("workers", 1)
	if col.Label != "workers" {
		t.Fatalf("expected label %q, got %q", "workers", col.Label)
	}

	col = Column{Source: "workers", Weight: 1, Label: "daytime"}
	if col.label() != "daytime" {
		t.Fatalf("expected label %q, got %q", "daytime", col.label())
	}
}

func TestFullPlacementScoresOne(t *testing.T) {
	set := testSites(t, map[string][]float64{"workers": {10, 20, 30}})
	obj, err := New(set, []Column{NewColumn("workers", 1)}, testMatrix(t, set))
	if err != nil {
		t.Fatalf("failed to build objectives: %v", err)
	}

	full := []bool{true, true, true}
	fit, err := obj.FitnessVector(full)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if len(fit) != 1 || fit[0] != 1.0 {
		t.Fatalf("expected full placement fitness [1.0], got %v", fit)
	}

	empty := []bool{false, false, false}
	fit, err = obj.FitnessVector(empty)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if fit[0] != 0.0 {
		t.Fatalf("expected empty placement fitness 0.0, got %v", fit[0])
	}
}

func TestFitnessIsWeightedAverageCoverage(t *testing.T) {
	set := testSites(t, map[string][]float64{"workers": {10, 20, 30}})
	obj, err := New(set, []Column{NewColumn("workers", 1)}, testMatrix(t, set))
	if err != nil {
		t.Fatalf("failed to build objectives: %v", err)
	}

	// A sensor at site b covers a and b within the 150 radius, not c.
	fit, err := obj.FitnessVector([]bool{false, true, false})
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	want := (10.0 + 20.0) / 60.0
	if math.Abs(fit[0]-want) > 1e-12 {
		t.Fatalf("expected fitness %g, got %g", want, fit[0])
	}
}

func TestCombinedObjectivesArithmetic(t *testing.T) {
	set := testSites(t, map[string][]float64{
		"workers":   {10, 20, 30},
		"residents": {1, 1, 2},
	})
	cols := []Column{
		{Source: "workers", Weight: 0.3},
		{Source: "residents", Weight: 0.7},
	}
	obj, err := Combine(set, cols, testMatrix(t, set))
	if err != nil {
		t.Fatalf("failed to build combined objectives: %v", err)
	}

	imp := obj.Importance()
	if math.Abs(imp[0]-0.3) > 1e-12 || math.Abs(imp[1]-0.7) > 1e-12 {
		t.Fatalf("expected importances [0.3 0.7], got %v", imp)
	}

	// Sensor at b covers a and b only.
	fit, err := obj.Fitness([]bool{false, true, false})
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	want := 0.3*(30.0/60.0) + 0.7*(2.0/4.0)
	if math.Abs(fit-want) > 1e-12 {
		t.Fatalf("expected combined fitness %g, got %g", want, fit)
	}

	vec, err := obj.FitnessVector([]bool{false, true, false})
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if len(vec) != 1 || math.Abs(vec[0]-want) > 1e-12 {
		t.Fatalf("expected vector [%g], got %v", want, vec)
	}
}

func TestDegenerateObjectiveFailsAtEvaluation(t *testing.T) {
	set := testSites(t, map[string][]float64{"workers": {0, 0, 0}})

	// Construction succeeds: the zero-sum column is only a problem once used.
	obj, err := New(set, []Column{NewColumn("workers", 1)}, testMatrix(t, set))
	if err != nil {
		t.Fatalf("construction should not fail for a zero-sum column: %v", err)
	}

	_, err = obj.FitnessVector([]bool{true, false, false})
	var degErr *DegenerateObjectiveError
	if !errors.As(err, &degErr) {
		t.Fatalf("expected DegenerateObjectiveError, got %v", err)
	}
	if degErr.Label != "workers" {
		t.Fatalf("expected degenerate label %q, got %q", "workers", degErr.Label)
	}
}

func TestUnknownColumnRejected(t *testing.T) {
	set := testSites(t, map[string][]float64{"workers": {1, 2, 3}})
	_, err := New(set, []Column{NewColumn("residents", 1)}, testMatrix(t, set))
	var paramErr *coverage.InvalidParameterError
	if !errors.As(err, &paramErr) {
		t.Fatalf("expected InvalidParameterError for unknown column, got %v", err)
	}
}

func TestNegativeWeightRejected(t *testing.T) {
	set := testSites(t, map[string][]float64{"workers": {1, -2, 3}})
	_, err := New(set, []Column{NewColumn("workers", 1)}, testMatrix(t, set))
	var paramErr *coverage.InvalidParameterError
	if !errors.As(err, &paramErr) {
		t.Fatalf("expected InvalidParameterError for negative weight, got %v", err)
	}
}
