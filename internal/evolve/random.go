package evolve

import (
	"fmt"

	"github.com/urbansense/placement-core/internal/objective"
	"github.com/urbansense/placement-core/internal/optimise"
	"github.com/urbansense/placement-core/pkg/utils"
)

// RandomSearch is the baseline optimiser: draw random placements and keep
// the best one seen. Useful as a sanity floor for the other optimisers.
type RandomSearch struct {
	obj        objective.Evaluator
	nSensors   int
	iterations int
	rng        *utils.RandSource
	progress   optimise.ProgressFunc
}

// RandomOption configures a RandomSearch optimiser
type RandomOption func(*RandomSearch)

// WithRandomSeed fixes the random seed. A seed of 0 selects a time-based seed.
func WithRandomSeed(seed int64) RandomOption {
	return func(r *RandomSearch) {
		r.rng = utils.NewRandSource(seed)
	}
}

// WithRandomProgress registers a callback invoked after each candidate
func WithRandomProgress(fn optimise.ProgressFunc) RandomOption {
	return func(r *RandomSearch) {
		r.progress = fn
	}
}

// NewRandomSearch creates a random-search optimiser drawing iterations
// candidate placements of nSensors sensors.
func NewRandomSearch(obj objective.Evaluator, nSensors, iterations int, opts ...RandomOption) (*RandomSearch, error) {
	if err := optimise.ValidateSensorCount(nSensors, obj.NSites()); err != nil {
		return nil, err
	}
	if iterations < 1 {
		return nil, fmt.Errorf("iteration count must be at least 1, got %d", iterations)
	}
	r := &RandomSearch{
		obj:        obj,
		nSensors:   nSensors,
		iterations: iterations,
		rng:        utils.NewRandSource(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run draws all candidates and returns the best placement found
func (r *RandomSearch) Run() (*optimise.SingleNetworkResult, error) {
	var best *optimise.SingleNetworkResult
	for i := 0; i < r.iterations; i++ {
		genes := r.rng.IntSlice(r.nSensors, r.obj.NSites())
		mask, err := optimise.MaskFromIndices(genes, r.obj.NSites())
		if err != nil {
			return nil, err
		}
		fit, err := r.obj.Fitness(mask)
		if err != nil {
			return nil, err
		}
		if best == nil || fit > best.TotalCoverage {
			best, err = optimise.NewSingleNetworkResult(r.obj, mask)
			if err != nil {
				return nil, err
			}
		}
		if r.progress != nil {
			r.progress(i+1, r.iterations)
		}
	}
	return best, nil
}
