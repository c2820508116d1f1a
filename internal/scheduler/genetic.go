package scheduler

import (
	"math/rand"
	"sort"
)

// Genetic search parameters. Small instances converge long before the
// generation cap; the cap keeps worst-case latency bounded.
const (
	populationSize = 50
	generations    = 500
	crossoverRate  = 0.8
	mutationRate   = 0.2
	eliteFraction  = 0.1
	parentPoolSize = 20
)

// geneticOrder searches permutations of the job set for one with low total
// weighted tardiness. Elitist generational GA with order crossover and swap
// mutation.
func geneticOrder(jobs []Job, rng *rand.Rand) []int {
	n := len(jobs)
	if n <= 1 {
		return identity(n)
	}

	pop := make([][]int, populationSize)
	for i := range pop {
		pop[i] = rng.Perm(n)
	}

	for gen := 0; gen < generations; gen++ {
		sort.SliceStable(pop, func(i, j int) bool {
			return TotalWeightedTardiness(pop[i], jobs) < TotalWeightedTardiness(pop[j], jobs)
		})

		elite := int(eliteFraction * populationSize)
		next := make([][]int, 0, populationSize)
		for _, p := range pop[:elite] {
			next = append(next, clonePerm(p))
		}

		pool := parentPoolSize
		if pool > len(pop) {
			pool = len(pop)
		}

		for len(next) < populationSize {
			var child []int
			if rng.Float64() < crossoverRate {
				a := pop[rng.Intn(pool)]
				b := pop[rng.Intn(pool)]
				child = crossover(a, b, rng)
			} else {
				child = clonePerm(pop[rng.Intn(len(pop))])
			}
			mutate(child, rng)
			next = append(next, child)
		}
		pop = next
	}

	best := pop[0]
	bestCost := TotalWeightedTardiness(best, jobs)
	for _, p := range pop[1:] {
		if cost := TotalWeightedTardiness(p, jobs); cost < bestCost {
			best, bestCost = p, cost
		}
	}
	return best
}

// crossover keeps a random segment of the first parent and fills the rest in
// the second parent's rotational order.
func crossover(p1, p2 []int, rng *rand.Rand) []int {
	n := len(p1)
	a, b := twoPoints(n, rng)

	child := make([]int, n)
	used := make([]bool, n)
	for i := range child {
		child[i] = -1
	}
	for i := a; i < b; i++ {
		child[i] = p1[i]
		used[p1[i]] = true
	}

	pos := b
	for i := 0; i < n; i++ {
		gene := p2[(b+i)%n]
		if used[gene] {
			continue
		}
		child[pos%n] = gene
		used[gene] = true
		pos++
	}
	return child
}

// mutate swaps two genes with probability mutationRate.
func mutate(seq []int, rng *rand.Rand) {
	if rng.Float64() < mutationRate {
		i, j := twoPoints(len(seq), rng)
		seq[i], seq[j] = seq[j], seq[i]
	}
}

// twoPoints returns two distinct indices in [0, n) with the first strictly
// smaller.
func twoPoints(n int, rng *rand.Rand) (int, int) {
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	if i < j {
		return i, j
	}
	return j, i
}

func clonePerm(p []int) []int {
	c := make([]int, len(p))
	copy(c, p)
	return c
}
