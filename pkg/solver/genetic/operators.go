package genetic

import (
	"math/rand"

	"github.com/fieldroute/optimizer/pkg/constraints"
	"github.com/fieldroute/optimizer/pkg/models"
)

// feasibleTechnicians returns, for each work order, the indices of
// technicians whose skills are a superset of the order's required
// skills. Grounded in genetic_solver.py's _build_feasibility_mask.
func feasibleTechnicians(orders []models.WorkOrder, technicians []models.Technician) [][]int {
	feasible := make([][]int, len(orders))
	for i, wo := range orders {
		var techIdxs []int
		for t, tech := range technicians {
			if constraints.SkillMatch(tech.Skills, wo.RequiredSkills) {
				techIdxs = append(techIdxs, t)
			}
		}
		feasible[i] = techIdxs
	}
	return feasible
}

// initializePopulation builds the initial generation. Each work order's
// assignee is sampled uniformly from its skill-feasible technicians,
// falling back to a uniform draw over all technicians when none are
// feasible. The sequence is a uniform random permutation.
func initializePopulation(size int, orders []models.WorkOrder, technicians []models.Technician, rng *rand.Rand) []Chromosome {
	feasible := feasibleTechnicians(orders, technicians)
	population := make([]Chromosome, size)

	for p := 0; p < size; p++ {
		assignments := make([]int, len(orders))
		for i := range orders {
			if len(feasible[i]) > 0 {
				assignments[i] = feasible[i][rng.Intn(len(feasible[i]))]
			} else {
				assignments[i] = rng.Intn(len(technicians))
			}
		}

		sequence := rng.Perm(len(orders))

		population[p] = Chromosome{Assignments: assignments, OrderSequence: sequence}
	}

	return population
}

// tournamentSelect draws k individuals with replacement and returns the
// one with minimum fitness.
func tournamentSelect(population []Chromosome, k int, rng *rand.Rand) Chromosome {
	best := population[rng.Intn(len(population))]
	for i := 1; i < k; i++ {
		candidate := population[rng.Intn(len(population))]
		if candidate.Fitness < best.Fitness {
			best = candidate
		}
	}
	return best
}

// uniformCrossover produces two children assignment vectors: each locus
// independently inherits from either parent with probability 1/2.
func uniformCrossover(p1, p2 []int, rng *rand.Rand) ([]int, []int) {
	n := len(p1)
	c1 := make([]int, n)
	c2 := make([]int, n)
	for i := 0; i < n; i++ {
		if rng.Float64() < 0.5 {
			c1[i], c2[i] = p1[i], p2[i]
		} else {
			c1[i], c2[i] = p2[i], p1[i]
		}
	}
	return c1, c2
}

// orderCrossover performs Order Crossover (OX) on two sequences: pick
// 0 <= i < j < n, copy parent1[i..j] into the child at i..j, then fill
// the remaining positions left-to-right (wrapping from j+1) with
// parent2's values not already present, in parent2's order.
func orderCrossover(p1, p2 []int, rng *rand.Rand) []int {
	n := len(p1)
	child := make([]int, n)
	for i := range child {
		child[i] = -1
	}

	i := rng.Intn(n)
	j := rng.Intn(n)
	for n > 1 && j == i {
		j = rng.Intn(n)
	}
	if i > j {
		i, j = j, i
	}

	present := make(map[int]bool, n)
	for k := i; k <= j; k++ {
		child[k] = p1[k]
		present[p1[k]] = true
	}

	pos := (j + 1) % n
	for k := 0; k < n; k++ {
		v := p2[(j+1+k)%n]
		if present[v] {
			continue
		}
		child[pos] = v
		present[v] = true
		pos = (pos + 1) % n
	}

	return child
}

// mutate applies in-place mutation at rate m: each assignment locus is,
// with probability m, reassigned to a uniformly chosen skill-feasible
// technician (falling back to uniform over all); independently, with
// probability m the sequence undergoes a single swap of two uniformly
// random positions.
func mutate(c *Chromosome, rate float64, feasible [][]int, numTechnicians int, rng *rand.Rand) {
	for i := range c.Assignments {
		if rng.Float64() < rate {
			if len(feasible[i]) > 0 {
				c.Assignments[i] = feasible[i][rng.Intn(len(feasible[i]))]
			} else {
				c.Assignments[i] = rng.Intn(numTechnicians)
			}
		}
	}

	if rng.Float64() < rate && len(c.OrderSequence) > 1 {
		a := rng.Intn(len(c.OrderSequence))
		b := rng.Intn(len(c.OrderSequence))
		c.OrderSequence[a], c.OrderSequence[b] = c.OrderSequence[b], c.OrderSequence[a]
	}
}
