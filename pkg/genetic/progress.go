package genetic

import (
	"github.com/limaJavier/genetic-timetabling/pkg/model"
)

// GeneView is a gene with its references resolved for presentation.
type GeneView struct {
	CourseId      string         `json:"courseId"`
	CourseName    string         `json:"course"`
	ProfessorId   string         `json:"professorId"`
	ProfessorName string         `json:"professor"`
	RoomId        string         `json:"room"`
	RoomCapacity  int            `json:"capacity"`
	TimeSlot      model.TimeSlot `json:"timeSlot"`
}

// Progress is emitted once per generation, in generation order.
type Progress struct {
	RunId      string
	Generation int // Starts at 1

	// Best individual seen so far in the run
	BestFitness  float64
	BestPenalty  int
	BestSchedule []GeneView

	// Statistics of the generation just evaluated
	GenerationBestFitness float64
	MeanFitness           float64

	Done bool // No further generation will be produced
}

type Listener interface {
	OnProgress(progress Progress)
}

type ListenerFunc func(progress Progress)

func (f ListenerFunc) OnProgress(progress Progress) {
	f(progress)
}

// Views resolves every gene of schedule against index.
func Views(schedule Schedule, index *model.Index) ([]GeneView, error) {
	views := make([]GeneView, 0, len(schedule))
	for _, gene := range schedule {
		course, err := index.Course(gene.Course)
		if err != nil {
			return nil, err
		}
		professor, err := index.Professor(gene.Professor)
		if err != nil {
			return nil, err
		}
		room, err := index.Room(gene.Room)
		if err != nil {
			return nil, err
		}

		views = append(views, GeneView{
			CourseId:      course.Id,
			CourseName:    course.Name,
			ProfessorId:   professor.Id,
			ProfessorName: professor.Name,
			RoomId:        room.Id,
			RoomCapacity:  room.Capacity,
			TimeSlot:      gene.TimeSlot,
		})
	}
	return views, nil
}
