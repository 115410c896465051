package objective

import (
	"gonum.org/v1/gonum/floats"

	"github.com/urbansense/placement-core/internal/coverage"
	"github.com/urbansense/placement-core/internal/sites"
	"github.com/urbansense/placement-core/pkg/utils"
)

// CombinedObjectives folds several weighted columns into a single scalar
// objective. Column importances are normalized to sum to one, then each
// site's combined weight is the importance-weighted sum of its normalized
// per-column weights.
type CombinedObjectives struct {
	inner      *Objectives
	importance []float64
	combined   []float64 // per-site combined weights, sum to one
}

// Combine builds a scalar objective from the same inputs as New. Column
// importances must be positive.
func Combine(set *sites.SiteSet, columns []Column, cov *coverage.Matrix) (*CombinedObjectives, error) {
	inner, err := New(set, columns, cov)
	if err != nil {
		return nil, err
	}

	importance := make([]float64, len(columns))
	for i, col := range columns {
		if col.Weight <= 0 {
			return nil, &coverage.InvalidParameterError{
				Param:  "objectives",
				Reason: "column importance must be positive for combined objectives",
			}
		}
		importance[i] = col.Weight
	}
	importance = utils.Normalize(importance)

	combined := make([]float64, set.N())
	for i := range combined {
		for j := range columns {
			combined[i] += importance[j] * inner.weights.At(i, j)
		}
	}

	return &CombinedObjectives{
		inner:      inner,
		importance: importance,
		combined:   combined,
	}, nil
}

// NSites returns the number of candidate sites
func (c *CombinedObjectives) NSites() int {
	return c.inner.NSites()
}

// Sites returns the site set the weights were computed against
func (c *CombinedObjectives) Sites() *sites.SiteSet {
	return c.inner.Sites()
}

// Coverage returns the shared coverage matrix
func (c *CombinedObjectives) Coverage() *coverage.Matrix {
	return c.inner.Coverage()
}

// Labels returns the labels of the combined columns
func (c *CombinedObjectives) Labels() []string {
	return c.inner.Labels()
}

// Importance returns the normalized column importances
func (c *CombinedObjectives) Importance() []float64 {
	out := make([]float64, len(c.importance))
	copy(out, c.importance)
	return out
}

// CoverageFor returns the per-site coverage breakdown of a placement
func (c *CombinedObjectives) CoverageFor(placement []bool) ([]float64, error) {
	return c.inner.CoverageFor(placement)
}

// Fitness returns the combined weighted average coverage of a placement.
// Any column with a zero weight sum makes the objective degenerate.
func (c *CombinedObjectives) Fitness(placement []bool) (float64, error) {
	cov, err := c.inner.cov.ForPlacement(placement)
	if err != nil {
		return 0, err
	}
	for j, sum := range c.inner.sums {
		if sum == 0 {
			return 0, &DegenerateObjectiveError{Label: c.inner.columns[j].label()}
		}
	}
	return floats.Dot(c.combined, cov), nil
}

// FitnessVector wraps Fitness so a combined objective can stand in where a
// vector evaluator is expected.
func (c *CombinedObjectives) FitnessVector(placement []bool) ([]float64, error) {
	f, err := c.Fitness(placement)
	if err != nil {
		return nil, err
	}
	return []float64{f}, nil
}

// NObj returns 1
func (c *CombinedObjectives) NObj() int {
	return 1
}
