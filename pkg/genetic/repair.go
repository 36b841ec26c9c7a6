package genetic

import (
	"slices"

	"github.com/limaJavier/genetic-timetabling/pkg/model"
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// ReassignRooms keeps every time slot of schedule and, slot by slot, looks for
// a room per lecture such that no room is shared and every course fits. Slots
// where such an assignment exists get it; the others are left untouched. The
// returned schedule is never penalized more than the original one.
func ReassignRooms(schedule Schedule, input model.ModelInput) (repaired Schedule, reassignedSlots int, err error) {
	index := model.NewIndex(input)
	repaired = slices.Clone(schedule)

	//** Group positions per time slot, in order of first appearance
	slots := lo.Uniq(lo.Map(schedule, func(gene Gene, _ int) model.TimeSlot { return gene.TimeSlot }))
	positions := lo.GroupBy(lo.Range(len(schedule)), func(i int) model.TimeSlot { return schedule[i].TimeSlot })

	for _, slot := range slots {
		assignments, err := assignRooms(schedule, positions[slot], input.Rooms, index)
		if err != nil {
			return nil, 0, err
		} else if assignments == nil {
			continue
		}

		for position, room := range assignments {
			repaired[position].Room = room
		}
		reassignedSlots++
	}
	return repaired, reassignedSlots, nil
}

// assignRooms matches the lectures at positions with the rooms they fit in. It
// returns nil when some lecture cannot be matched.
func assignRooms(schedule Schedule, positions []int, rooms []model.Room, index *model.Index) (map[int]string, error) {
	enrollments := make(map[int]int, len(positions))
	for _, position := range positions {
		course, err := index.Course(schedule[position].Course)
		if err != nil {
			return nil, err
		}
		enrollments[position] = course.Enrollment
	}

	// Build neighbors predicate: a lecture is adjacent to every room it fits in
	neighbors := func(positionAny any, roomAny any) (bool, error) {
		position := positionAny.(int)
		room := roomAny.(model.Room)
		return enrollments[position] <= room.Capacity, nil
	}

	positionsAny, roomsAny := lo.Map(positions, func(position int, _ int) any { return position }), lo.Map(rooms, func(room model.Room, _ int) any { return room })

	graph, err := bipartitegraph.NewBipartiteGraph(positionsAny, roomsAny, neighbors)
	if err != nil {
		return nil, err
	}

	matching := graph.LargestMatching()
	if len(matching) < len(positions) {
		return nil, nil
	}

	assignments := make(map[int]string, len(positions))
	for _, edge := range matching {
		positionIndex, roomIndex := edge.Node1, edge.Node2-len(positions)
		assignments[positions[positionIndex]] = rooms[roomIndex].Id
	}
	return assignments, nil
}
