package report

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/genetic-timetabling/pkg/genetic"
	"github.com/limaJavier/genetic-timetabling/pkg/model"
	"github.com/samber/lo"
)

type SlotGroup struct {
	TimeSlot model.TimeSlot     `json:"timeSlot"`
	Genes    []genetic.GeneView `json:"lectures"`
}

// GroupByTimeSlot groups views per time slot. Groups follow the first
// appearance of their slot and keep the relative order of their views.
func GroupByTimeSlot(views []genetic.GeneView) []SlotGroup {
	slots := lo.Uniq(lo.Map(views, func(view genetic.GeneView, _ int) model.TimeSlot { return view.TimeSlot }))
	grouped := lo.GroupBy(views, func(view genetic.GeneView) model.TimeSlot { return view.TimeSlot })

	return lo.Map(slots, func(slot model.TimeSlot, _ int) SlotGroup {
		return SlotGroup{TimeSlot: slot, Genes: grouped[slot]}
	})
}

type scheduleRow struct {
	TimeSlot     string `csv:"time_slot"`
	CourseId     string `csv:"course_id"`
	Course       string `csv:"course"`
	ProfessorId  string `csv:"professor_id"`
	Professor    string `csv:"professor"`
	Room         string `csv:"room"`
	RoomCapacity int    `csv:"room_capacity"`
}

// WriteScheduleCsv writes one row per lecture, grouped by time slot.
func WriteScheduleCsv(w io.Writer, views []genetic.GeneView) error {
	rows := make([]scheduleRow, 0, len(views))
	for _, group := range GroupByTimeSlot(views) {
		for _, view := range group.Genes {
			rows = append(rows, scheduleRow{
				TimeSlot:     string(view.TimeSlot),
				CourseId:     view.CourseId,
				Course:       view.CourseName,
				ProfessorId:  view.ProfessorId,
				Professor:    view.ProfessorName,
				Room:         view.RoomId,
				RoomCapacity: view.RoomCapacity,
			})
		}
	}
	return gocsv.Marshal(&rows, w)
}
