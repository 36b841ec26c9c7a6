package model

import (
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"
)

const (
	CoursesCsv    = "courses.csv"
	ProfessorsCsv = "professors.csv"
	RoomsCsv      = "rooms.csv"
	TimeSlotsCsv  = "timeslots.csv"
	LecturesCsv   = "lectures.csv"
)

type timeSlotRow struct {
	Label string `csv:"label"`
}

// InputFromCsv reads one csv file per collection from dir. Every file must
// have a header row naming its columns.
func InputFromCsv(dir string) (ModelInput, error) {
	var input ModelInput
	if err := unmarshalCsv(filepath.Join(dir, CoursesCsv), &input.Courses); err != nil {
		return ModelInput{}, err
	}
	if err := unmarshalCsv(filepath.Join(dir, ProfessorsCsv), &input.Professors); err != nil {
		return ModelInput{}, err
	}
	if err := unmarshalCsv(filepath.Join(dir, RoomsCsv), &input.Rooms); err != nil {
		return ModelInput{}, err
	}
	if err := unmarshalCsv(filepath.Join(dir, LecturesCsv), &input.Lectures); err != nil {
		return ModelInput{}, err
	}

	var slots []timeSlotRow
	if err := unmarshalCsv(filepath.Join(dir, TimeSlotsCsv), &slots); err != nil {
		return ModelInput{}, err
	}
	input.TimeSlots = lo.Map(slots, func(row timeSlotRow, _ int) TimeSlot { return TimeSlot(row.Label) })

	if err := input.Validate(); err != nil {
		return ModelInput{}, err
	}
	return input, nil
}

func unmarshalCsv[T any](path string, out *[]T) error {
	file, err := os.Open(path)
	if err != nil {
		return InputFormatError{Source: path, Err: err}
	}
	defer file.Close()

	if err := gocsv.UnmarshalFile(file, out); err != nil {
		return InputFormatError{Source: path, Err: err}
	}
	return nil
}
