package model

import "github.com/samber/lo"

// Index resolves ids of a ModelInput. It is read-only after construction and
// safe for concurrent use.
type Index struct {
	courses    map[string]Course
	professors map[string]Professor
	rooms      map[string]Room
}

func NewIndex(input ModelInput) *Index {
	return &Index{
		courses:    lo.KeyBy(input.Courses, func(course Course) string { return course.Id }),
		professors: lo.KeyBy(input.Professors, func(professor Professor) string { return professor.Id }),
		rooms:      lo.KeyBy(input.Rooms, func(room Room) string { return room.Id }),
	}
}

func (index *Index) Course(id string) (Course, error) {
	course, ok := index.courses[id]
	if !ok {
		return Course{}, LookupError{Kind: "course", Id: id}
	}
	return course, nil
}

func (index *Index) Professor(id string) (Professor, error) {
	professor, ok := index.professors[id]
	if !ok {
		return Professor{}, LookupError{Kind: "professor", Id: id}
	}
	return professor, nil
}

func (index *Index) Room(id string) (Room, error) {
	room, ok := index.rooms[id]
	if !ok {
		return Room{}, LookupError{Kind: "room", Id: id}
	}
	return room, nil
}
