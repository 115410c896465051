package optimise

import (
	"fmt"

	"github.com/urbansense/placement-core/internal/objective"
	"github.com/urbansense/placement-core/pkg/models"
	"github.com/urbansense/placement-core/pkg/utils"
)

// SingleNetworkResult describes one placed sensor network: which sites carry
// a sensor, the total coverage achieved and the per-site breakdown. Higher
// coverage is always better at this boundary.
type SingleNetworkResult struct {
	Objective     objective.Evaluator
	Sensors       []bool
	TotalCoverage float64
	SiteCoverage  []float64
}

// NewSingleNetworkResult evaluates a placement against an objective and
// captures the outcome.
func NewSingleNetworkResult(obj objective.Evaluator, sensors []bool) (*SingleNetworkResult, error) {
	total, err := obj.Fitness(sensors)
	if err != nil {
		return nil, err
	}
	perSite, err := obj.CoverageFor(sensors)
	if err != nil {
		return nil, err
	}
	mask := make([]bool, len(sensors))
	copy(mask, sensors)
	return &SingleNetworkResult{
		Objective:     obj,
		Sensors:       mask,
		TotalCoverage: total,
		SiteCoverage:  perSite,
	}, nil
}

// NSensors returns the number of placed sensors
func (r *SingleNetworkResult) NSensors() int {
	n := 0
	for _, s := range r.Sensors {
		if s {
			n++
		}
	}
	return n
}

// SensorIndices returns the indices of the selected sites in ascending order
func (r *SingleNetworkResult) SensorIndices() []int {
	return IndicesFromMask(r.Sensors)
}

// SensorIDs returns the identifiers of the selected sites
func (r *SingleNetworkResult) SensorIDs() []string {
	set := r.Objective.Sites()
	indices := r.SensorIndices()
	ids := make([]string, len(indices))
	for i, idx := range indices {
		ids[i] = set.Site(idx).ID
	}
	return ids
}

// Record flattens the result into its serialisable form
func (r *SingleNetworkResult) Record(meta models.RunMeta) *models.NetworkRecord {
	siteCov := make([]float64, len(r.SiteCoverage))
	copy(siteCov, r.SiteCoverage)
	return &models.NetworkRecord{
		RunMeta:       meta,
		NSensors:      r.NSensors(),
		SensorIndices: r.SensorIndices(),
		SensorIDs:     r.SensorIDs(),
		TotalCoverage: r.TotalCoverage,
		SiteCoverage:  siteCov,
	}
}

// SingleResultFromRecord rebuilds a result from its serialised form by
// re-evaluating the recorded placement against the given objective.
func SingleResultFromRecord(obj objective.Evaluator, rec *models.NetworkRecord) (*SingleNetworkResult, error) {
	mask, err := MaskFromIndices(rec.SensorIndices, obj.NSites())
	if err != nil {
		return nil, err
	}
	return NewSingleNetworkResult(obj, mask)
}

// PopulationResult describes a population of candidate networks and their
// per-objective fitness values after a number of generations. Fitness values
// follow the higher-is-better convention.
type PopulationResult struct {
	Objectives    objective.VectorEvaluator
	Population    [][]int     // populationSize x nSensors site indices
	TotalCoverage [][]float64 // populationSize x nObj fitness values
	Generations   int
}

// BestIndex returns the population index with the highest fitness on the
// given objective. Ties resolve to the first occurrence.
func (r *PopulationResult) BestIndex(obj int) (int, error) {
	if obj < 0 || obj >= r.Objectives.NObj() {
		return 0, fmt.Errorf("objective index %d out of range [0, %d)", obj, r.Objectives.NObj())
	}
	if len(r.TotalCoverage) == 0 {
		return 0, fmt.Errorf("population is empty")
	}
	col := make([]float64, len(r.TotalCoverage))
	for i, fit := range r.TotalCoverage {
		col[i] = fit[obj]
	}
	return utils.ArgMax(col), nil
}

// SingleResult extracts the i-th candidate as a single-network result under
// a scalar view of the objectives.
func (r *PopulationResult) SingleResult(i int, obj objective.Evaluator) (*SingleNetworkResult, error) {
	if i < 0 || i >= len(r.Population) {
		return nil, fmt.Errorf("population index %d out of range [0, %d)", i, len(r.Population))
	}
	mask, err := MaskFromIndices(r.Population[i], obj.NSites())
	if err != nil {
		return nil, err
	}
	return NewSingleNetworkResult(obj, mask)
}

// BestResult extracts the best candidate on the given objective index as a
// single-network result.
func (r *PopulationResult) BestResult(objIdx int, obj objective.Evaluator) (*SingleNetworkResult, error) {
	best, err := r.BestIndex(objIdx)
	if err != nil {
		return nil, err
	}
	return r.SingleResult(best, obj)
}

// Record flattens the population into its serialisable form
func (r *PopulationResult) Record(meta models.RunMeta) *models.PopulationRecord {
	nSensors := 0
	if len(r.Population) > 0 {
		nSensors = len(r.Population[0])
	}
	pop := make([][]int, len(r.Population))
	for i, genes := range r.Population {
		pop[i] = make([]int, len(genes))
		copy(pop[i], genes)
	}
	cov := make([][]float64, len(r.TotalCoverage))
	for i, fit := range r.TotalCoverage {
		cov[i] = make([]float64, len(fit))
		copy(cov[i], fit)
	}
	return &models.PopulationRecord{
		RunMeta:        meta,
		NSensors:       nSensors,
		PopulationSize: len(r.Population),
		Generations:    r.Generations,
		Population:     pop,
		TotalCoverage:  cov,
	}
}

// PopulationResultFromRecord rebuilds a population result from its
// serialised form. Fitness values are taken from the record as-is.
func PopulationResultFromRecord(obj objective.VectorEvaluator, rec *models.PopulationRecord) (*PopulationResult, error) {
	if len(rec.Population) != len(rec.TotalCoverage) {
		return nil, fmt.Errorf("record has %d candidates but %d fitness rows", len(rec.Population), len(rec.TotalCoverage))
	}
	pop := make([][]int, len(rec.Population))
	for i, genes := range rec.Population {
		for _, g := range genes {
			if g < 0 || g >= obj.NSites() {
				return nil, fmt.Errorf("site index %d out of range [0, %d)", g, obj.NSites())
			}
		}
		pop[i] = make([]int, len(genes))
		copy(pop[i], genes)
	}
	cov := make([][]float64, len(rec.TotalCoverage))
	for i, fit := range rec.TotalCoverage {
		cov[i] = make([]float64, len(fit))
		copy(cov[i], fit)
	}
	return &PopulationResult{
		Objectives:    obj,
		Population:    pop,
		TotalCoverage: cov,
		Generations:   rec.Generations,
	}, nil
}
