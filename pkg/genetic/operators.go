package genetic

import (
	"math/rand/v2"
	"slices"

	"github.com/limaJavier/genetic-timetabling/pkg/model"
)

// Crossover returns a[:cut] followed by b[cut:] for a cut drawn uniformly in
// [0, len(a)). Genes are taken by position; both parents must have the same length.
func Crossover(a, b Schedule, rng *rand.Rand) Schedule {
	if len(a) != len(b) {
		panic("crossover parents must have the same length")
	}
	cut := rng.IntN(len(a))

	offspring := make(Schedule, 0, len(a))
	offspring = append(offspring, a[:cut]...)
	offspring = append(offspring, b[cut:]...)
	return offspring
}

// Mutate returns a copy of schedule where every gene, with probability rate,
// gets either a new time slot or a new room (fair coin). Lectures are never changed.
func Mutate(schedule Schedule, roomIds []string, timeSlots []model.TimeSlot, rate float64, rng *rand.Rand) Schedule {
	mutated := slices.Clone(schedule)
	for i := range mutated {
		if rng.Float64() >= rate {
			continue
		}

		if rng.Float64() < 0.5 {
			mutated[i].TimeSlot = timeSlots[rng.IntN(len(timeSlots))]
		} else {
			mutated[i].Room = roomIds[rng.IntN(len(roomIds))]
		}
	}
	return mutated
}

// Breed builds the next population: the elitism first schedules of selected
// are kept, the rest are mutated offspring of parents drawn uniformly from selected.
func Breed(selected Population, size, elitism int, roomIds []string, timeSlots []model.TimeSlot, rate float64, rng *rand.Rand) Population {
	elitism = min(elitism, len(selected), size)
	next := make(Population, 0, size)
	next = append(next, selected[:elitism]...)

	for len(next) < size {
		parentA := selected[rng.IntN(len(selected))]
		parentB := selected[rng.IntN(len(selected))]
		next = append(next, Mutate(Crossover(parentA, parentB, rng), roomIds, timeSlots, rate, rng))
	}
	return next
}
