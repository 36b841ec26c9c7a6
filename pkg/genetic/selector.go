package genetic

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"
)

// SortByFitness orders individuals by descending fitness; equal fitnesses keep
// their relative order.
func SortByFitness(individuals []Individual) {
	slices.SortStableFunc(individuals, func(a, b Individual) int {
		return cmp.Compare(b.Fitness, a.Fitness)
	})
}

// Select sorts the individuals and returns size schedules: the elitism best
// ones first, then roulette-wheel draws (with replacement) over the whole
// sorted population.
func Select(individuals []Individual, size, elitism int, rng *rand.Rand) Population {
	if len(individuals) == 0 {
		return nil
	}
	SortByFitness(individuals)

	elitism = min(elitism, len(individuals), size)
	selected := make(Population, 0, size)
	for _, elite := range individuals[:elitism] {
		selected = append(selected, elite.Schedule)
	}

	totalFitness := lo.SumBy(individuals, func(individual Individual) float64 { return individual.Fitness })
	for len(selected) < size {
		selected = append(selected, spin(individuals, totalFitness, rng).Schedule)
	}
	return selected
}

func spin(individuals []Individual, totalFitness float64, rng *rand.Rand) Individual {
	point := rng.Float64() * totalFitness
	partial := 0.0
	for _, individual := range individuals {
		partial += individual.Fitness
		if partial >= point {
			return individual
		}
	}
	// Rounding may leave the accumulated sum just below the point
	return individuals[len(individuals)-1]
}
