package genetic

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// individuals returns one single-gene individual per penalty; the room id of
// the gene identifies the individual.
func individuals(penalties ...int) []Individual {
	return lo.Map(penalties, func(penalty int, i int) Individual {
		return Individual{
			Schedule: Schedule{gene("C1", "P1", string(rune('a'+i)), "T1")},
			Fitness:  Fitness(penalty),
			Penalty:  penalty,
		}
	})
}

func TestSortByFitness(t *testing.T) {
	population := individuals(300, 0, 100, 0, 300)

	SortByFitness(population)

	rooms := lo.Map(population, func(individual Individual, _ int) string { return individual.Schedule[0].Room })
	assert.Equal(t, []string{"b", "d", "c", "a", "e"}, rooms)
}

func TestSelect(t *testing.T) {
	t.Run("Elites come first", func(t *testing.T) {
		//** Arrange
		population := individuals(400, 0, 200, 100, 300)

		//** Act
		selected := Select(population, 5, 2, newRand(7))

		//** Assert
		require.Len(t, selected, 5)
		assert.Equal(t, "b", selected[0][0].Room)
		assert.Equal(t, "d", selected[1][0].Room)
		for _, schedule := range selected {
			assert.Contains(t, []string{"a", "b", "c", "d", "e"}, schedule[0].Room)
		}
	})

	t.Run("Wheel favours fitter individuals", func(t *testing.T) {
		population := individuals(0, 999)

		selected := Select(population, 2000, 0, newRand(8))

		counts := lo.CountValuesBy(selected, func(schedule Schedule) string { return schedule[0].Room })
		// The fit individual owns 1000/1001 of the wheel
		assert.Greater(t, counts["a"], 1900)
		assert.Equal(t, 2000, counts["a"]+counts["b"])
	})

	t.Run("Sampling with replacement", func(t *testing.T) {
		population := individuals(0)

		selected := Select(population, 10, 0, newRand(9))

		assert.Len(t, selected, 10)
		for _, schedule := range selected {
			assert.Equal(t, population[0].Schedule, schedule)
		}
	})

	t.Run("Elitism covering the whole population", func(t *testing.T) {
		population := individuals(100, 0, 200)

		selected := Select(population, 3, 3, newRand(10))

		assert.Equal(t, []string{"b", "a", "c"}, lo.Map(selected, func(schedule Schedule, _ int) string { return schedule[0].Room }))
	})

	t.Run("Never fails on non-empty populations", func(t *testing.T) {
		rng := newRand(11)
		for size := 1; size <= 20; size++ {
			penalties := lo.Times(size, func(_ int) int { return rng.IntN(10) * 100 })
			assert.NotPanics(t, func() {
				assert.Len(t, Select(individuals(penalties...), size, min(2, size), rng), size)
			})
		}
	})

	t.Run("Empty population", func(t *testing.T) {
		assert.Nil(t, Select(nil, 5, 2, newRand(12)))
	})
}
