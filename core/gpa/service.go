package gpa

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/gpacalc/core"
	"github.com/trezcool/gpacalc/core/grade"
)

var (
	// errors
	ErrCourseNotFound   = errors.New("course not found")
	ErrSemesterNotFound = errors.New("semester not found")
	ErrBlankName        = errors.New("name cannot be blank")
)

// Store owns the canonical Model. Every mutation bumps the revision and is
// written through to the DurableStore; write failures are logged, never returned.
// A Store has a single owner and is not safe for concurrent use.
type Store struct {
	db  DurableStore
	log core.Logger

	m   Model
	rev uint64

	stats    Stats
	statsRev uint64
}

func NewStore(db DurableStore, log core.Logger) *Store {
	return &Store{
		db:  db,
		log: log,
		m:   DefaultModel(),
		rev: 1,
	}
}

// Load replaces the in-memory model with the persisted one. Absent or corrupt
// entries fall back to the default model.
func (s *Store) Load() {
	s.m = s.load()
	s.rev++
}

func (s *Store) changed() {
	s.rev++
	s.persist()
}

// Revision increases on every change of the model.
func (s *Store) Revision() uint64 {
	return s.rev
}

// Snapshot returns a deep copy of the model.
func (s *Store) Snapshot() Model {
	return s.m.Clone()
}

// Stats returns the derived render model, recomputed at most once per revision.
func (s *Store) Stats() Stats {
	if s.statsRev != s.rev {
		s.stats = Recompute(s.m)
		s.statsRev = s.rev
	}
	return s.stats
}

// Courses

func (s *Store) AddCourse(name string, creditHours int) (Course, error) {
	nc := NewCourse{Name: name, CreditHours: creditHours}
	if err := nc.Validate(); err != nil {
		return Course{}, toValidationError(err)
	}
	c := Course{ID: core.NewID(), Name: nc.Name, CreditHours: nc.CreditHours}
	s.m.Courses = append(s.m.Courses, c)
	s.changed()
	return c, nil
}

func (s *Store) UpdateCourse(id string, uc UpdateCourse) (Course, error) {
	idx := s.m.courseIndex(id)
	if idx < 0 {
		return Course{}, ErrCourseNotFound
	}
	c := s.m.Courses[idx]
	if uc.Name != nil {
		name := core.Sanitize(*uc.Name, CourseNameMaxLen)
		if name == "" {
			return Course{}, core.NewValidationError(ErrBlankName, core.FieldError{Field: "name", Error: ErrBlankName.Error()})
		}
		c.Name = name
	}
	if uc.CreditHours != nil {
		c.CreditHours = ClampCourseCredits(*uc.CreditHours)
	}
	s.m.Courses[idx] = c
	s.changed()
	return c, nil
}

// RemoveCourse deletes the course and its grade. Unknown ids are ignored.
func (s *Store) RemoveCourse(id string) {
	idx := s.m.courseIndex(id)
	if idx < 0 {
		return
	}
	s.m.Courses = append(s.m.Courses[:idx], s.m.Courses[idx+1:]...)
	delete(s.m.Grades, id)
	s.changed()
}

// Grades

func (s *Store) SetGrade(courseID, label string) error {
	if s.m.courseIndex(courseID) < 0 {
		return ErrCourseNotFound
	}
	if !grade.IsValid(label) {
		return core.NewValidationError(grade.ErrUnknownGrade, core.FieldError{Field: "grade", Error: "unknown grade " + strconv.Quote(label)})
	}
	if s.m.Grades[courseID] == label {
		return nil
	}
	s.m.Grades[courseID] = label
	s.changed()
	return nil
}

func (s *Store) ClearGrade(courseID string) error {
	if s.m.courseIndex(courseID) < 0 {
		return ErrCourseNotFound
	}
	if _, ok := s.m.Grades[courseID]; !ok {
		return nil
	}
	delete(s.m.Grades, courseID)
	s.changed()
	return nil
}

// ResetCurrentTermGrades clears every grade and keeps the courses.
func (s *Store) ResetCurrentTermGrades() {
	s.m.Grades = make(Grades)
	s.changed()
}

// Semesters

func (s *Store) AddSemester(ns NewSemester) Semester {
	sem := Semester{
		ID:                  core.NewID(),
		Name:                core.Sanitize(ns.Name, SemesterNameMaxLen),
		CreditHours:         ns.CreditHours,
		GPA:                 ns.GPA,
		RepeatedCreditHours: ns.RepeatedCreditHours,
	}
	if sem.Name == "" {
		sem.Name = "Semester " + strconv.Itoa(len(s.m.Semesters)+1)
	}
	sem.clamp()
	s.m.Semesters = append(s.m.Semesters, sem)
	s.changed()
	return sem
}

func (s *Store) UpdateSemester(id string, us UpdateSemester) (Semester, error) {
	idx := s.m.semesterIndex(id)
	if idx < 0 {
		return Semester{}, ErrSemesterNotFound
	}
	sem := s.m.Semesters[idx]
	if us.Name != nil {
		if name := core.Sanitize(*us.Name, SemesterNameMaxLen); name != "" {
			sem.Name = name
		}
	}
	if us.CreditHours != nil {
		sem.CreditHours = *us.CreditHours
	}
	if us.GPA != nil {
		sem.GPA = *us.GPA
	}
	if us.RepeatedCreditHours != nil {
		sem.RepeatedCreditHours = *us.RepeatedCreditHours
	}
	sem.clamp()
	s.m.Semesters[idx] = sem
	s.changed()
	return sem, nil
}

// RemoveSemester deletes the semester. Unknown ids are ignored.
func (s *Store) RemoveSemester(id string) {
	idx := s.m.semesterIndex(id)
	if idx < 0 {
		return
	}
	s.m.Semesters = append(s.m.Semesters[:idx], s.m.Semesters[idx+1:]...)
	s.changed()
}

// Whole model

// ClearAll resets to a single placeholder course with no grades and no history.
// There is no undo.
func (s *Store) ClearAll() {
	s.m = DefaultModel()
	s.changed()
}

// Replace swaps the whole model, e.g. for an imported share link.
// m is normalized like any other untrusted input.
func (s *Store) Replace(m Model) {
	s.m = normalize(m)
	s.changed()
}

func toValidationError(err error) error {
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		return core.NewValidationError(ErrBlankName, core.TranslateErrors(vErrs)...)
	}
	return err
}
