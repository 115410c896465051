package evolve

import (
	"math"
	"sort"

	"github.com/urbansense/placement-core/pkg/utils"
)

// NSGAII holds the genetic operators of the population optimiser. Genomes
// are site indices in [0, numSites); crossover and mutation work in the
// continuous domain and round back onto the integer grid.
type NSGAII struct {
	PopSize       int
	NumSensors    int
	NumSites      int
	CrossoverRate float64
	MutationRate  float64

	rng *utils.RandSource
}

// NewNSGAII creates the operator set with the conventional rates
func NewNSGAII(popSize, numSensors, numSites int, rng *utils.RandSource) *NSGAII {
	return &NSGAII{
		PopSize:       popSize,
		NumSensors:    numSensors,
		NumSites:      numSites,
		CrossoverRate: 0.8,
		MutationRate:  0.1,
		rng:           rng,
	}
}

// Initialize creates a random population of genomes. Fitness is left for
// the caller to evaluate.
func (n *NSGAII) Initialize() []Individual {
	population := make([]Individual, n.PopSize)
	for i := range population {
		population[i] = Individual{Genes: n.rng.IntSlice(n.NumSensors, n.NumSites)}
	}
	return population
}

// TournamentSelect picks the better of two random individuals: lower rank
// wins, larger crowding distance breaks ties.
func (n *NSGAII) TournamentSelect(population []Individual) Individual {
	best := population[n.rng.Intn(len(population))]
	contestant := population[n.rng.Intn(len(population))]
	if contestant.Rank < best.Rank || (contestant.Rank == best.Rank && contestant.Distance > best.Distance) {
		best = contestant
	}
	return best
}

// Crossover performs simulated binary crossover on the gene values, rounding
// children back onto valid site indices.
func (n *NSGAII) Crossover(parent1, parent2 Individual) (Individual, Individual) {
	child1 := Individual{Genes: make([]int, len(parent1.Genes))}
	child2 := Individual{Genes: make([]int, len(parent2.Genes))}

	if n.rng.Float64() >= n.CrossoverRate {
		copy(child1.Genes, parent1.Genes)
		copy(child2.Genes, parent2.Genes)
		return child1, child2
	}

	for i := range parent1.Genes {
		beta := 0.0
		if n.rng.Float64() <= 0.5 {
			beta = math.Pow(2*n.rng.Float64(), 1.0/3.0)
		} else {
			beta = math.Pow(1.0/(2*(1.0-n.rng.Float64())), 1.0/3.0)
		}

		p1 := float64(parent1.Genes[i])
		p2 := float64(parent2.Genes[i])
		child1.Genes[i] = n.clampGene(0.5 * ((1+beta)*p1 + (1-beta)*p2))
		child2.Genes[i] = n.clampGene(0.5 * ((1-beta)*p1 + (1+beta)*p2))
	}
	return child1, child2
}

// Mutation performs polynomial mutation on each gene with probability
// MutationRate.
func (n *NSGAII) Mutation(individual *Individual) {
	for i := range individual.Genes {
		if n.rng.Float64() >= n.MutationRate {
			continue
		}
		delta := 0.0
		if n.rng.Float64() <= 0.5 {
			delta = math.Pow(2*n.rng.Float64(), 1.0/3.0) - 1
		} else {
			delta = 1 - math.Pow(2*(1-n.rng.Float64()), 1.0/3.0)
		}
		individual.Genes[i] = n.clampGene(float64(individual.Genes[i]) + delta*float64(n.NumSites-1))
	}
}

func (n *NSGAII) clampGene(v float64) int {
	idx := int(math.Round(v))
	return utils.Clamp(idx, 0, n.NumSites-1)
}

// Select builds the next generation from the combined parent and offspring
// populations: whole fronts in rank order, the last partial front by
// descending crowding distance.
func (n *NSGAII) Select(combined []Individual) []Individual {
	fronts := NonDominatedSort(combined)

	next := make([]Individual, 0, n.PopSize)
	frontIndex := 0
	for frontIndex < len(fronts) && len(next)+len(fronts[frontIndex]) <= n.PopSize {
		CrowdingDistance(fronts[frontIndex])
		next = append(next, fronts[frontIndex]...)
		frontIndex++
	}

	if len(next) < n.PopSize && frontIndex < len(fronts) {
		front := fronts[frontIndex]
		CrowdingDistance(front)
		sort.Slice(front, func(i, j int) bool {
			return front[i].Distance > front[j].Distance
		})
		next = append(next, front[:n.PopSize-len(next)]...)
	}
	return next
}
