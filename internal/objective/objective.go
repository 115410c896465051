// Package objective turns weighted per-site value columns and a coverage
// matrix into fitness functions over placements. All evaluations are pure:
// the optimisers may evaluate thousands of candidates in any order.
package objective

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/urbansense/placement-core/internal/coverage"
	"github.com/urbansense/placement-core/internal/sites"
)

// DegenerateObjectiveError indicates an objective whose effective weight
// vector sums to zero, detected at evaluation time.
type DegenerateObjectiveError struct {
	Label string
}

func (e *DegenerateObjectiveError) Error() string {
	return "degenerate objective " + e.Label + ": weights sum to zero"
}

// Column names one weight column of the site table, with the importance this
// objective carries when objectives are combined and an optional label.
type Column struct {
	Source string
	Weight float64
	Label  string
}

// NewColumn creates a Column with the label defaulting to the source name
func NewColumn(source string, weight float64) Column {
	return Column{Source: source, Weight: weight, Label: source}
}

func (c Column) label() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Source
}

// Evaluator is a single-objective fitness function over placements
type Evaluator interface {
	// Fitness returns the weighted average coverage of a placement in [0, 1].
	Fitness(placement []bool) (float64, error)
	// CoverageFor returns the per-site coverage breakdown of a placement.
	CoverageFor(placement []bool) ([]float64, error)
	// NSites returns the number of candidate sites.
	NSites() int
	// Sites returns the site set the weights were computed against.
	Sites() *sites.SiteSet
	// Labels returns the objective labels.
	Labels() []string
}

// VectorEvaluator is a multi-objective fitness function over placements
type VectorEvaluator interface {
	// FitnessVector returns one fitness value per objective.
	FitnessVector(placement []bool) ([]float64, error)
	// NObj returns the number of objectives.
	NObj() int
	// CoverageFor returns the per-site coverage breakdown of a placement.
	CoverageFor(placement []bool) ([]float64, error)
	// NSites returns the number of candidate sites.
	NSites() int
	// Sites returns the site set the weights were computed against.
	Sites() *sites.SiteSet
	// Labels returns the objective labels.
	Labels() []string
}

// Objectives holds one normalized weight column per objective, all aligned
// to the site-index order of the set they were computed against.
type Objectives struct {
	set     *sites.SiteSet
	cov     *coverage.Matrix
	columns []Column
	weights *mat.Dense // nSites x nObj, columns normalized when sums are non-zero
	sums    []float64  // raw column sums, zero marks a degenerate objective
}

// New builds the weight matrix for a list of columns. Weights must be
// non-negative; a zero-sum column only fails once it is evaluated.
func New(set *sites.SiteSet, columns []Column, cov *coverage.Matrix) (*Objectives, error) {
	if set == nil || cov == nil {
		return nil, &coverage.InvalidParameterError{Param: "objectives", Reason: "site set and coverage matrix are required"}
	}
	if len(columns) == 0 {
		return nil, &coverage.InvalidParameterError{Param: "objectives", Reason: "at least one column is required"}
	}
	if cov.NSites() != set.N() {
		return nil, &coverage.InvalidParameterError{
			Param:  "coverage",
			Reason: fmt.Sprintf("matrix has %d sites but site set has %d", cov.NSites(), set.N()),
		}
	}

	n := set.N()
	weights := mat.NewDense(n, len(columns), nil)
	sums := make([]float64, len(columns))
	for j, col := range columns {
		values, ok := set.Column(col.Source)
		if !ok {
			return nil, &coverage.InvalidParameterError{
				Param:  "objectives",
				Reason: fmt.Sprintf("unknown column %q", col.Source),
			}
		}
		for i, v := range values {
			if v < 0 {
				return nil, &coverage.InvalidParameterError{
					Param:  "objectives",
					Reason: fmt.Sprintf("column %q has negative weight %g at site %d", col.Source, v, i),
				}
			}
			weights.Set(i, j, v)
		}
		sums[j] = floats.Sum(values)
		if sums[j] > 0 {
			for i := 0; i < n; i++ {
				weights.Set(i, j, weights.At(i, j)/sums[j])
			}
		}
	}

	return &Objectives{
		set:     set,
		cov:     cov,
		columns: columns,
		weights: weights,
		sums:    sums,
	}, nil
}

// NObj returns the number of objectives
func (o *Objectives) NObj() int {
	return len(o.columns)
}

// NSites returns the number of candidate sites
func (o *Objectives) NSites() int {
	return o.set.N()
}

// Sites returns the site set the weights were computed against
func (o *Objectives) Sites() *sites.SiteSet {
	return o.set
}

// Coverage returns the shared coverage matrix
func (o *Objectives) Coverage() *coverage.Matrix {
	return o.cov
}

// Labels returns the objective labels in column order
func (o *Objectives) Labels() []string {
	out := make([]string, len(o.columns))
	for i, col := range o.columns {
		out[i] = col.label()
	}
	return out
}

// CoverageFor returns the per-site coverage breakdown of a placement
func (o *Objectives) CoverageFor(placement []bool) ([]float64, error) {
	return o.cov.ForPlacement(placement)
}

// FitnessVector evaluates each objective independently: the weighted average
// of per-site coverage under that objective's normalized weights.
func (o *Objectives) FitnessVector(placement []bool) ([]float64, error) {
	cov, err := o.cov.ForPlacement(placement)
	if err != nil {
		return nil, err
	}

	out := make([]float64, o.NObj())
	for j := range o.columns {
		if o.sums[j] == 0 {
			return nil, &DegenerateObjectiveError{Label: o.columns[j].label()}
		}
		col := mat.Col(nil, j, o.weights)
		out[j] = floats.Dot(col, cov)
	}
	return out, nil
}
