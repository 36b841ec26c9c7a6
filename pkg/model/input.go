package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

type Course struct {
	Id         string `mapstructure:"id" csv:"id" validate:"required"`
	Name       string `mapstructure:"name" csv:"name"`
	Enrollment int    `mapstructure:"enrollment" csv:"enrollment" validate:"gte=0"`
}

type Professor struct {
	Id   string `mapstructure:"id" csv:"id" validate:"required"`
	Name string `mapstructure:"name" csv:"name"`
}

type Room struct {
	Id       string `mapstructure:"id" csv:"id" validate:"required"`
	Capacity int    `mapstructure:"capacity" csv:"capacity" validate:"gte=0"`
}

// TimeSlot is an opaque label; two slots are the same slot iff their labels are equal.
type TimeSlot string

// Lecture is the template every schedule position is built from.
type Lecture struct {
	Course    string `mapstructure:"course" csv:"course" validate:"required"`
	Professor string `mapstructure:"professor" csv:"professor" validate:"required"`
}

type ModelInput struct {
	Courses    []Course    `mapstructure:"courses" validate:"dive"`
	Professors []Professor `mapstructure:"professors" validate:"dive"`
	Rooms      []Room      `mapstructure:"rooms" validate:"dive"`
	TimeSlots  []TimeSlot  `mapstructure:"timeSlots" validate:"dive,required"`
	Lectures   []Lecture   `mapstructure:"lectures" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// InputFromJson reads a document with the five collections. Keys are matched
// case-insensitively, so both "timeSlots" and "TIMESLOTS" are accepted.
func InputFromJson(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, InputFormatError{Source: file, Err: err}
	}
	return InputFromJsonBytes(file, bytes)
}

func InputFromJsonBytes(source string, bytes []byte) (ModelInput, error) {
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ModelInput{}, InputFormatError{Source: source, Err: err}
	}

	var input ModelInput
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true, // Numeric ids and slot labels are read as strings
		Result:           &input,
	})
	if err != nil {
		return ModelInput{}, err
	}
	if err := decoder.Decode(inputJson); err != nil {
		return ModelInput{}, InputFormatError{Source: source, Err: err}
	}

	if err := input.Validate(); err != nil {
		return ModelInput{}, err
	}
	return input, nil
}

// Validate checks the structure of the input and that every lecture references
// a known course and professor. Emptiness of rooms, time slots and lectures is
// not checked here; it is a configuration concern of the engine.
func (input ModelInput) Validate() error {
	if err := validate.Struct(input); err != nil {
		return InputFormatError{Source: "model input", Err: err}
	}

	//** Duplicated ids
	duplicates := map[string][]string{
		"course":    lo.FindDuplicates(lo.Map(input.Courses, func(course Course, _ int) string { return course.Id })),
		"professor": lo.FindDuplicates(lo.Map(input.Professors, func(professor Professor, _ int) string { return professor.Id })),
		"room":      lo.FindDuplicates(lo.Map(input.Rooms, func(room Room, _ int) string { return room.Id })),
		"time slot": lo.Map(lo.FindDuplicates(input.TimeSlots), func(slot TimeSlot, _ int) string { return string(slot) }),
	}
	for _, kind := range []string{"course", "professor", "room", "time slot"} {
		if len(duplicates[kind]) > 0 {
			return InputFormatError{
				Source: "model input",
				Err:    fmt.Errorf("duplicate %v ids: %v", kind, duplicates[kind]),
			}
		}
	}

	//** Lecture references
	index := NewIndex(input)
	for i, lecture := range input.Lectures {
		if _, err := index.Course(lecture.Course); err != nil {
			return fmt.Errorf("lecture %v: %w", i, err)
		}
		if _, err := index.Professor(lecture.Professor); err != nil {
			return fmt.Errorf("lecture %v: %w", i, err)
		}
	}
	return nil
}

func (input ModelInput) RoomIds() []string {
	return lo.Map(input.Rooms, func(room Room, _ int) string { return room.Id })
}
