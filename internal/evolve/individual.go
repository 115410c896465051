// Package evolve implements population-based placement search: an NSGA-II
// optimiser over integer site-index genomes, plus a random-search baseline.
// Objective values are negated internally so the machinery minimises;
// results are converted back to higher-is-better at the boundary.
package evolve

import (
	"math"
	"sort"
)

// Individual is one candidate placement: a genome of site indices and its
// objective values under the minimisation convention. Rank and Distance are
// populated by non-dominated sorting.
type Individual struct {
	Genes      []int
	Objectives []float64
	Rank       int
	Distance   float64
}

// Clone returns a deep copy of the individual
func (ind Individual) Clone() Individual {
	genes := make([]int, len(ind.Genes))
	copy(genes, ind.Genes)
	objs := make([]float64, len(ind.Objectives))
	copy(objs, ind.Objectives)
	return Individual{Genes: genes, Objectives: objs, Rank: ind.Rank, Distance: ind.Distance}
}

// Dominates reports whether a dominates b under minimisation: a is no worse
// on every objective and strictly better on at least one.
func Dominates(a, b Individual) bool {
	better := false
	for i := range a.Objectives {
		if a.Objectives[i] > b.Objectives[i] {
			return false
		}
		if a.Objectives[i] < b.Objectives[i] {
			better = true
		}
	}
	return better
}

// NonDominatedSort partitions a population into fronts and assigns ranks.
// The first front holds the individuals no other individual dominates.
func NonDominatedSort(population []Individual) [][]Individual {
	var fronts [][]Individual
	dominated := make(map[int][]int)
	domCount := make([]int, len(population))

	for i := 0; i < len(population); i++ {
		dominated[i] = []int{}
		for j := 0; j < len(population); j++ {
			if i == j {
				continue
			}
			if Dominates(population[i], population[j]) {
				dominated[i] = append(dominated[i], j)
			} else if Dominates(population[j], population[i]) {
				domCount[i]++
			}
		}
	}

	currentFront := []Individual{}
	currentFrontIndices := []int{}
	for i := 0; i < len(population); i++ {
		if domCount[i] == 0 {
			population[i].Rank = 0
			currentFront = append(currentFront, population[i])
			currentFrontIndices = append(currentFrontIndices, i)
		}
	}
	fronts = append(fronts, currentFront)

	frontIndex := 0
	for len(currentFront) > 0 {
		nextFront := []Individual{}
		nextFrontIndices := []int{}
		for _, idx := range currentFrontIndices {
			for _, dominatedIdx := range dominated[idx] {
				domCount[dominatedIdx]--
				if domCount[dominatedIdx] == 0 {
					population[dominatedIdx].Rank = frontIndex + 1
					nextFront = append(nextFront, population[dominatedIdx])
					nextFrontIndices = append(nextFrontIndices, dominatedIdx)
				}
			}
		}
		frontIndex++
		if len(nextFront) > 0 {
			fronts = append(fronts, nextFront)
		}
		currentFront = nextFront
		currentFrontIndices = nextFrontIndices
	}

	return fronts
}

// CrowdingDistance assigns each individual in a front the crowding distance
// used to break rank ties. Boundary individuals get infinite distance.
func CrowdingDistance(front []Individual) {
	if len(front) <= 2 {
		for i := range front {
			front[i].Distance = math.Inf(1)
		}
		return
	}

	numObjectives := len(front[0].Objectives)
	for i := range front {
		front[i].Distance = 0
	}

	for m := 0; m < numObjectives; m++ {
		sort.Slice(front, func(i, j int) bool {
			return front[i].Objectives[m] < front[j].Objectives[m]
		})

		front[0].Distance = math.Inf(1)
		front[len(front)-1].Distance = math.Inf(1)

		objectiveRange := front[len(front)-1].Objectives[m] - front[0].Objectives[m]
		if objectiveRange == 0 {
			continue
		}

		for i := 1; i < len(front)-1; i++ {
			front[i].Distance += (front[i+1].Objectives[m] - front[i-1].Objectives[m]) / objectiveRange
		}
	}
}
