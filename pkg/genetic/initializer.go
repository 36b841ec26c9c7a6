package genetic

import (
	"math/rand/v2"

	"github.com/limaJavier/genetic-timetabling/pkg/model"
)

// InitializePopulation builds size schedules whose rooms and time slots are
// drawn uniformly and independently for every lecture.
func InitializePopulation(input model.ModelInput, size int, rng *rand.Rand) (Population, error) {
	if err := checkDomain(input); err != nil {
		return nil, err
	}

	population := make(Population, size)
	for i := range population {
		population[i] = randomSchedule(input.Lectures, input.Rooms, input.TimeSlots, rng)
	}
	return population, nil
}

func checkDomain(input model.ModelInput) error {
	if len(input.Lectures) == 0 {
		return model.ConfigurationError{Reason: "at least one lecture is required"}
	} else if len(input.Rooms) == 0 {
		return model.ConfigurationError{Reason: "at least one room is required"}
	} else if len(input.TimeSlots) == 0 {
		return model.ConfigurationError{Reason: "at least one time slot is required"}
	}
	return nil
}

func randomSchedule(lectures []model.Lecture, rooms []model.Room, timeSlots []model.TimeSlot, rng *rand.Rand) Schedule {
	schedule := make(Schedule, len(lectures))
	for i, lecture := range lectures {
		schedule[i] = Gene{
			Lecture:  lecture,
			Room:     rooms[rng.IntN(len(rooms))].Id,
			TimeSlot: timeSlots[rng.IntN(len(timeSlots))],
		}
	}
	return schedule
}
