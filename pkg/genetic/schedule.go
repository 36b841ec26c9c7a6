package genetic

import "github.com/limaJavier/genetic-timetabling/pkg/model"

// Gene is a lecture with its assigned room and time slot.
type Gene struct {
	model.Lecture
	Room     string
	TimeSlot model.TimeSlot
}

// Schedule holds one gene per lecture; position i always corresponds to the
// i-th lecture of the model input.
type Schedule []Gene

type Population []Schedule

// Individual is an evaluated schedule.
type Individual struct {
	Schedule Schedule
	Fitness  float64
	Penalty  int
}

// Fitness maps a penalty into (0, 1]; only a penalty of 0 yields 1.
func Fitness(penalty int) float64 {
	return 1 / (1 + float64(penalty))
}
