package genetic

import (
	"github.com/limaJavier/genetic-timetabling/pkg/model"
	"github.com/sourcegraph/conc/pool"
)

// HardPenalty is added for every capacity overflow and for every extra lecture
// sharing a room or a professor within a time slot.
const HardPenalty = 100

type ViolationKind string

const (
	CapacityOverflow ViolationKind = "capacity-overflow"
	RoomClash        ViolationKind = "room-clash"
	ProfessorClash   ViolationKind = "professor-clash"
)

// Violation describes one penalized situation of a schedule. Lectures holds the
// schedule positions involved.
type Violation struct {
	Kind     ViolationKind  `json:"kind"`
	TimeSlot model.TimeSlot `json:"timeSlot"`
	Resource string         `json:"resource"` // Room id for overflows and room clashes, professor id otherwise
	Lectures []int          `json:"lectures"`
	Penalty  int            `json:"penalty"`
}

type resourceKey struct {
	timeSlot  model.TimeSlot
	professor bool // Rooms and professors are counted apart even when their ids coincide
	id        string
}

func roomKey(gene Gene) resourceKey {
	return resourceKey{timeSlot: gene.TimeSlot, id: gene.Room}
}

func professorKey(gene Gene) resourceKey {
	return resourceKey{timeSlot: gene.TimeSlot, professor: true, id: gene.Professor}
}

// Evaluator scores schedules against a model input. It holds no mutable state
// and may be shared between goroutines.
type Evaluator struct {
	index *model.Index
}

func NewEvaluator(input model.ModelInput) *Evaluator {
	return &Evaluator{index: model.NewIndex(input)}
}

func (evaluator *Evaluator) Evaluate(schedule Schedule) (fitness float64, penalty int, err error) {
	counts := make(map[resourceKey]int, 2*len(schedule))
	for _, gene := range schedule {
		overflow, err := evaluator.overflows(gene)
		if err != nil {
			return 0, 0, err
		} else if overflow {
			penalty += HardPenalty
		}
		counts[roomKey(gene)]++
		counts[professorKey(gene)]++
	}

	for _, count := range counts {
		if count > 1 {
			penalty += HardPenalty * (count - 1)
		}
	}
	return Fitness(penalty), penalty, nil
}

// Violations lists what Evaluate penalizes: capacity overflows in schedule
// order, then clashes in order of first appearance. Their penalties add up to
// the penalty returned by Evaluate.
func (evaluator *Evaluator) Violations(schedule Schedule) ([]Violation, error) {
	violations := make([]Violation, 0)
	positions := make(map[resourceKey][]int)
	keys := make([]resourceKey, 0, 2*len(schedule))

	for i, gene := range schedule {
		overflow, err := evaluator.overflows(gene)
		if err != nil {
			return nil, err
		} else if overflow {
			violations = append(violations, Violation{
				Kind:     CapacityOverflow,
				TimeSlot: gene.TimeSlot,
				Resource: gene.Room,
				Lectures: []int{i},
				Penalty:  HardPenalty,
			})
		}

		for _, key := range []resourceKey{roomKey(gene), professorKey(gene)} {
			if _, ok := positions[key]; !ok {
				keys = append(keys, key)
			}
			positions[key] = append(positions[key], i)
		}
	}

	for _, key := range keys {
		lectures := positions[key]
		if len(lectures) < 2 {
			continue
		}
		kind := RoomClash
		if key.professor {
			kind = ProfessorClash
		}
		violations = append(violations, Violation{
			Kind:     kind,
			TimeSlot: key.timeSlot,
			Resource: key.id,
			Lectures: lectures,
			Penalty:  HardPenalty * (len(lectures) - 1),
		})
	}
	return violations, nil
}

func (evaluator *Evaluator) overflows(gene Gene) (bool, error) {
	course, err := evaluator.index.Course(gene.Course)
	if err != nil {
		return false, err
	}
	room, err := evaluator.index.Room(gene.Room)
	if err != nil {
		return false, err
	}
	return course.Enrollment > room.Capacity, nil
}

// EvaluatePopulation evaluates every schedule, using up to workers goroutines.
// Individuals keep the order of the population.
func EvaluatePopulation(evaluator *Evaluator, population Population, workers int) ([]Individual, error) {
	individuals := make([]Individual, len(population))

	if workers <= 1 {
		for i, schedule := range population {
			fitness, penalty, err := evaluator.Evaluate(schedule)
			if err != nil {
				return nil, err
			}
			individuals[i] = Individual{Schedule: schedule, Fitness: fitness, Penalty: penalty}
		}
		return individuals, nil
	}

	p := pool.New().WithErrors().WithMaxGoroutines(workers)
	for i, schedule := range population {
		p.Go(func() error {
			fitness, penalty, err := evaluator.Evaluate(schedule)
			if err != nil {
				return err
			}
			individuals[i] = Individual{Schedule: schedule, Fitness: fitness, Penalty: penalty}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return individuals, nil
}
