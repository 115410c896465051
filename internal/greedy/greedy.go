// Package greedy implements forward greedy selection of sensor sites: at
// each step the unselected site with the largest strict coverage gain is
// committed permanently. Deterministic for a fixed site set and objective.
package greedy

import (
	"github.com/urbansense/placement-core/internal/objective"
	"github.com/urbansense/placement-core/internal/optimise"
	"github.com/urbansense/placement-core/pkg/models"
)

// Result is a single-network result plus the order in which sensors were
// placed and the coverage achieved after each placement. CoverageHistory is
// non-decreasing.
type Result struct {
	*optimise.SingleNetworkResult
	PlacementHistory []int
	CoverageHistory  []float64
}

// Record flattens the result, including its placement history
func (r *Result) Record(meta models.RunMeta) *models.NetworkRecord {
	rec := r.SingleNetworkResult.Record(meta)
	rec.PlacementHistory = make([]int, len(r.PlacementHistory))
	copy(rec.PlacementHistory, r.PlacementHistory)
	rec.CoverageHistory = make([]float64, len(r.CoverageHistory))
	copy(rec.CoverageHistory, r.CoverageHistory)
	return rec
}

// Greedy drives forward greedy selection over a scalar objective
type Greedy struct {
	obj      objective.Evaluator
	progress optimise.ProgressFunc
	nSensors int
}

// Option configures a Greedy optimiser
type Option func(*Greedy)

// WithProgress registers a callback invoked after each placed sensor
func WithProgress(fn optimise.ProgressFunc) Option {
	return func(g *Greedy) {
		g.progress = fn
	}
}

// New creates a greedy optimiser for nSensors sensors over the objective's
// site set.
func New(obj objective.Evaluator, nSensors int, opts ...Option) (*Greedy, error) {
	if err := optimise.ValidateSensorCount(nSensors, obj.NSites()); err != nil {
		return nil, err
	}
	g := &Greedy{obj: obj, nSensors: nSensors}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// NSensors returns the target sensor count
func (g *Greedy) NSensors() int {
	return g.nSensors
}

// Run places all sensors from an empty network, reporting progress after
// each placement.
func (g *Greedy) Run() (*Result, error) {
	res, err := g.emptyResult()
	if err != nil {
		return nil, err
	}
	for i := 0; i < g.nSensors; i++ {
		res, err = g.Update(res)
		if err != nil {
			return nil, err
		}
		if g.progress != nil {
			g.progress(i+1, g.nSensors)
		}
	}
	return res, nil
}

// Update extends a partial result by one sensor: the unselected site whose
// addition yields the largest strict coverage improvement, lowest index on
// ties. A site that improves nothing still gets committed only if some
// strict improvement exists elsewhere; otherwise the lowest unselected index
// is taken so the placement always reaches the requested size.
func (g *Greedy) Update(res *Result) (*Result, error) {
	if res == nil {
		var err error
		res, err = g.emptyResult()
		if err != nil {
			return nil, err
		}
	}
	if len(res.PlacementHistory) >= g.nSensors {
		return res, nil
	}

	// Trial placements use a copy so the caller's result stays intact.
	mask := make([]bool, len(res.Sensors))
	copy(mask, res.Sensors)

	current := res.TotalCoverage
	best := -1
	bestCov := current
	for j := 0; j < g.obj.NSites(); j++ {
		if mask[j] {
			continue
		}
		mask[j] = true
		cov, err := g.obj.Fitness(mask)
		mask[j] = false
		if err != nil {
			return nil, err
		}
		if cov > bestCov {
			best = j
			bestCov = cov
		}
	}
	if best < 0 {
		// No strict improvement anywhere: commit the lowest free site.
		for j := 0; j < g.obj.NSites(); j++ {
			if !mask[j] {
				best = j
				bestCov = current
				break
			}
		}
	}

	mask[best] = true
	next, err := optimise.NewSingleNetworkResult(g.obj, mask)
	if err != nil {
		return nil, err
	}
	return &Result{
		SingleNetworkResult: next,
		PlacementHistory:    append(append([]int{}, res.PlacementHistory...), best),
		CoverageHistory:     append(append([]float64{}, res.CoverageHistory...), bestCov),
	}, nil
}

func (g *Greedy) emptyResult() (*Result, error) {
	empty, err := optimise.NewSingleNetworkResult(g.obj, make([]bool, g.obj.NSites()))
	if err != nil {
		return nil, err
	}
	return &Result{
		SingleNetworkResult: empty,
		PlacementHistory:    []int{},
		CoverageHistory:     []float64{},
	}, nil
}
