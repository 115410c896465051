package evolve

import (
	"fmt"

	"github.com/urbansense/placement-core/internal/objective"
	"github.com/urbansense/placement-core/internal/optimise"
	"github.com/urbansense/placement-core/pkg/utils"
)

// Evolutionary runs NSGA-II over placements of a fixed sensor count. It is
// stateful: Run starts a fresh population, Update evolves the current one
// further, and Result snapshots the population at any point.
type Evolutionary struct {
	obj         objective.VectorEvaluator
	nsga        *NSGAII
	rng         *utils.RandSource
	progress    optimise.ProgressFunc
	generations int

	population []Individual
	completed  int
}

// EvolveOption configures an Evolutionary optimiser
type EvolveOption func(*Evolutionary)

// WithProgress registers a callback invoked after each generation
func WithProgress(fn optimise.ProgressFunc) EvolveOption {
	return func(e *Evolutionary) {
		e.progress = fn
	}
}

// WithSeed fixes the random seed. A seed of 0 selects a time-based seed.
func WithSeed(seed int64) EvolveOption {
	return func(e *Evolutionary) {
		e.rng = utils.NewRandSource(seed)
	}
}

// WithRates overrides the default crossover and mutation rates. A zero rate
// keeps the corresponding default.
func WithRates(crossover, mutation float64) EvolveOption {
	return func(e *Evolutionary) {
		if crossover > 0 {
			e.nsga.CrossoverRate = crossover
		}
		if mutation > 0 {
			e.nsga.MutationRate = mutation
		}
	}
}

// New creates an evolutionary optimiser for nSensors sensors over the
// objectives' site set.
func New(obj objective.VectorEvaluator, nSensors, popSize, generations int, opts ...EvolveOption) (*Evolutionary, error) {
	if err := optimise.ValidateSensorCount(nSensors, obj.NSites()); err != nil {
		return nil, err
	}
	if popSize < 2 {
		return nil, fmt.Errorf("population size must be at least 2, got %d", popSize)
	}
	if generations < 1 {
		return nil, fmt.Errorf("generation count must be at least 1, got %d", generations)
	}

	e := &Evolutionary{
		obj:         obj,
		rng:         utils.NewRandSource(0),
		generations: generations,
	}
	e.nsga = NewNSGAII(popSize, nSensors, obj.NSites(), e.rng)
	for _, opt := range opts {
		opt(e)
	}
	e.nsga.rng = e.rng
	return e, nil
}

// Generations returns the number of generations completed so far
func (e *Evolutionary) Generations() int {
	return e.completed
}

// Run evolves a fresh population for the configured number of generations
func (e *Evolutionary) Run() (*optimise.PopulationResult, error) {
	e.population = nil
	e.completed = 0
	return e.Update(e.generations)
}

// Update evolves the current population for gens further generations,
// initialising one first if needed. Progress is reported relative to this
// update.
func (e *Evolutionary) Update(gens int) (*optimise.PopulationResult, error) {
	if e.population == nil {
		e.population = e.nsga.Initialize()
		for i := range e.population {
			if err := e.evaluate(&e.population[i]); err != nil {
				return nil, err
			}
		}
		e.rank()
	}

	for gen := 0; gen < gens; gen++ {
		if err := e.evolveOnce(); err != nil {
			return nil, err
		}
		e.completed++
		if e.progress != nil {
			e.progress(gen+1, gens)
		}
	}
	return e.Result(), nil
}

// Resume replaces the current population with one recorded earlier, so a
// run can continue across process restarts. Recorded fitness values follow
// the higher-is-better convention and are negated on the way in.
func (e *Evolutionary) Resume(res *optimise.PopulationResult) error {
	if len(res.Population) != e.nsga.PopSize {
		return fmt.Errorf("recorded population has %d candidates, expected %d", len(res.Population), e.nsga.PopSize)
	}
	population := make([]Individual, len(res.Population))
	for i, genes := range res.Population {
		for _, g := range genes {
			if g < 0 || g >= e.obj.NSites() {
				return fmt.Errorf("site index %d out of range [0, %d)", g, e.obj.NSites())
			}
		}
		ind := Individual{
			Genes:      append([]int{}, genes...),
			Objectives: make([]float64, len(res.TotalCoverage[i])),
		}
		for j, f := range res.TotalCoverage[i] {
			ind.Objectives[j] = -f
		}
		population[i] = ind
	}
	e.population = population
	e.completed = res.Generations
	e.rank()
	return nil
}

// Result snapshots the current population with higher-is-better fitness
func (e *Evolutionary) Result() *optimise.PopulationResult {
	pop := make([][]int, len(e.population))
	cov := make([][]float64, len(e.population))
	for i, ind := range e.population {
		pop[i] = append([]int{}, ind.Genes...)
		cov[i] = make([]float64, len(ind.Objectives))
		for j, f := range ind.Objectives {
			cov[i][j] = -f
		}
	}
	return &optimise.PopulationResult{
		Objectives:    e.obj,
		Population:    pop,
		TotalCoverage: cov,
		Generations:   e.completed,
	}
}

func (e *Evolutionary) evolveOnce() error {
	offspring := make([]Individual, 0, e.nsga.PopSize)
	for len(offspring) < e.nsga.PopSize {
		parent1 := e.nsga.TournamentSelect(e.population)
		parent2 := e.nsga.TournamentSelect(e.population)
		child1, child2 := e.nsga.Crossover(parent1, parent2)

		e.nsga.Mutation(&child1)
		e.nsga.Mutation(&child2)
		if err := e.evaluate(&child1); err != nil {
			return err
		}
		if err := e.evaluate(&child2); err != nil {
			return err
		}

		offspring = append(offspring, child1)
		if len(offspring) < e.nsga.PopSize {
			offspring = append(offspring, child2)
		}
	}

	combined := append(append([]Individual{}, e.population...), offspring...)
	e.population = e.nsga.Select(combined)
	return nil
}

// evaluate negates the objective vector so the machinery minimises.
// Duplicate genes collapse onto one placed sensor.
func (e *Evolutionary) evaluate(ind *Individual) error {
	mask, err := optimise.MaskFromIndices(ind.Genes, e.obj.NSites())
	if err != nil {
		return err
	}
	fit, err := e.obj.FitnessVector(mask)
	if err != nil {
		return err
	}
	ind.Objectives = make([]float64, len(fit))
	for i, f := range fit {
		ind.Objectives[i] = -f
	}
	return nil
}

func (e *Evolutionary) rank() {
	fronts := NonDominatedSort(e.population)
	ranked := make([]Individual, 0, len(e.population))
	for _, front := range fronts {
		CrowdingDistance(front)
		ranked = append(ranked, front...)
	}
	e.population = ranked
}

// ParetoFront returns the indices of the non-dominated candidates in a
// higher-is-better fitness table, in ascending index order.
func ParetoFront(fitness [][]float64) []int {
	var front []int
	for i := range fitness {
		dominated := false
		for j := range fitness {
			if i == j {
				continue
			}
			better := false
			worse := false
			for m := range fitness[i] {
				if fitness[j][m] > fitness[i][m] {
					better = true
				} else if fitness[j][m] < fitness[i][m] {
					worse = true
				}
			}
			if better && !worse {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, i)
		}
	}
	return front
}
