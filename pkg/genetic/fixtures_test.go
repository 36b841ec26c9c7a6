package genetic

import (
	"math/rand/v2"
	"testing"

	"github.com/limaJavier/genetic-timetabling/pkg/model"
	"github.com/stretchr/testify/require"
)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// solvableInput has two lectures taught by different professors; any
// assignment using distinct rooms or distinct slots is conflict-free.
func solvableInput() model.ModelInput {
	return model.ModelInput{
		Courses: []model.Course{
			{Id: "C1", Name: "Calculus", Enrollment: 30},
			{Id: "C2", Name: "Algebra", Enrollment: 20},
		},
		Professors: []model.Professor{
			{Id: "P1", Name: "Ada"},
			{Id: "P2", Name: "Alan"},
		},
		Rooms: []model.Room{
			{Id: "R1", Capacity: 40},
			{Id: "R2", Capacity: 35},
		},
		TimeSlots: []model.TimeSlot{"Mon-09", "Mon-11"},
		Lectures: []model.Lecture{
			{Course: "C1", Professor: "P1"},
			{Course: "C2", Professor: "P2"},
		},
	}
}

// unsolvableInput has three lectures of one professor, one room and one slot.
func unsolvableInput() model.ModelInput {
	return model.ModelInput{
		Courses: []model.Course{
			{Id: "C1", Name: "Calculus", Enrollment: 10},
			{Id: "C2", Name: "Algebra", Enrollment: 10},
			{Id: "C3", Name: "Geometry", Enrollment: 10},
		},
		Professors: []model.Professor{{Id: "P1", Name: "Ada"}},
		Rooms:      []model.Room{{Id: "R1", Capacity: 10}},
		TimeSlots:  []model.TimeSlot{"Mon-09"},
		Lectures: []model.Lecture{
			{Course: "C1", Professor: "P1"},
			{Course: "C2", Professor: "P1"},
			{Course: "C3", Professor: "P1"},
		},
	}
}

// mediumInput needs several generations to be solved and has rooms too small
// for some courses.
func mediumInput() model.ModelInput {
	return model.ModelInput{
		Courses: []model.Course{
			{Id: "C1", Name: "Calculus", Enrollment: 80},
			{Id: "C2", Name: "Algebra", Enrollment: 60},
			{Id: "C3", Name: "Geometry", Enrollment: 25},
			{Id: "C4", Name: "Logic", Enrollment: 25},
			{Id: "C5", Name: "Physics", Enrollment: 45},
			{Id: "C6", Name: "Chemistry", Enrollment: 30},
			{Id: "C7", Name: "Biology", Enrollment: 30},
			{Id: "C8", Name: "History", Enrollment: 15},
		},
		Professors: []model.Professor{
			{Id: "P1", Name: "Ada"},
			{Id: "P2", Name: "Alan"},
			{Id: "P3", Name: "Grace"},
		},
		Rooms: []model.Room{
			{Id: "R1", Capacity: 90},
			{Id: "R2", Capacity: 50},
			{Id: "R3", Capacity: 30},
		},
		TimeSlots: []model.TimeSlot{"Mon-09", "Mon-11", "Tue-09", "Tue-11"},
		Lectures: []model.Lecture{
			{Course: "C1", Professor: "P1"},
			{Course: "C2", Professor: "P1"},
			{Course: "C3", Professor: "P2"},
			{Course: "C4", Professor: "P2"},
			{Course: "C5", Professor: "P3"},
			{Course: "C6", Professor: "P3"},
			{Course: "C7", Professor: "P1"},
			{Course: "C8", Professor: "P2"},
		},
	}
}

func requireAligned(t *testing.T, schedule Schedule, lectures []model.Lecture) {
	t.Helper()
	require.Len(t, schedule, len(lectures))
	for i, gene := range schedule {
		require.Equal(t, lectures[i], gene.Lecture, "position %v", i)
	}
}
