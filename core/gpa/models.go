package gpa

import (
	"math"

	"github.com/trezcool/gpacalc/core"
)

// Field bounds
const (
	CourseNameMaxLen = 50
	CourseMinCredits = 1
	CourseMaxCredits = 6

	SemesterNameMaxLen = 30
	SemesterMinCredits = 0
	SemesterMaxCredits = 50

	MinGPA = 0.0
	MaxGPA = 4.0

	DefaultCourseCredits = 3
)

// Course is a current-term course.
type Course struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreditHours int    `json:"credit_hours"`
}

// Grades maps Course.ID to a grade.Grade label.
type Grades map[string]string

// Semester is the summary of one completed term.
// RepeatedCreditHours are excluded from cumulative weighting entirely.
type Semester struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	CreditHours         int     `json:"credit_hours"`
	GPA                 float64 `json:"gpa"`
	RepeatedCreditHours int     `json:"repeated_credit_hours"`
}

// HistoricalCourse is the per-course alternative to Semester summaries.
// IsRepeat only marks a retake; the original attempt is not excluded automatically.
type HistoricalCourse struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	CreditHours           int    `json:"credit_hours"`
	SemesterIndex         int    `json:"semester_index"`
	Grade                 string `json:"grade"`
	IsRepeat              bool   `json:"is_repeat"`
	OriginalSemesterIndex *int   `json:"original_semester_index,omitempty"`
}

type Model struct {
	Courses   []Course   `json:"courses"`
	Grades    Grades     `json:"grades"`
	Semesters []Semester `json:"semesters"`
}

// Clone returns a deep copy of m.
func (m Model) Clone() Model {
	c := Model{
		Courses:   make([]Course, len(m.Courses)),
		Grades:    make(Grades, len(m.Grades)),
		Semesters: make([]Semester, len(m.Semesters)),
	}
	copy(c.Courses, m.Courses)
	copy(c.Semesters, m.Semesters)
	for id, label := range m.Grades {
		c.Grades[id] = label
	}
	return c
}

func (m Model) courseIndex(id string) int {
	for i, c := range m.Courses {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (m Model) semesterIndex(id string) int {
	for i, s := range m.Semesters {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// DefaultModel is the model of a first visit: one placeholder course, nothing else.
func DefaultModel() Model {
	return Model{
		Courses:   []Course{{ID: core.NewID(), Name: "Course 1", CreditHours: DefaultCourseCredits}},
		Grades:    make(Grades),
		Semesters: make([]Semester, 0),
	}
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Name        string `json:"name" validate:"notblank"`
	CreditHours int    `json:"credit_hours"`
}

// Validate sanitizes nc in place, clamps its credits and rejects a blank name.
func (nc *NewCourse) Validate() error {
	nc.Name = core.Sanitize(nc.Name, CourseNameMaxLen)
	nc.CreditHours = ClampCourseCredits(nc.CreditHours)
	return core.Validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
// nil fields are left untouched.
type UpdateCourse struct {
	Name        *string `json:"name"`
	CreditHours *int    `json:"credit_hours"`
}

// NewSemester contains information needed to create a new Semester.
// A blank Name is replaced by "Semester <n>".
type NewSemester struct {
	Name                string  `json:"name"`
	CreditHours         int     `json:"credit_hours"`
	GPA                 float64 `json:"gpa"`
	RepeatedCreditHours int     `json:"repeated_credit_hours"`
}

// UpdateSemester defines what information may be provided to modify an existing Semester.
// nil fields are left untouched; a blank Name keeps the current one.
type UpdateSemester struct {
	Name                *string  `json:"name"`
	CreditHours         *int     `json:"credit_hours"`
	GPA                 *float64 `json:"gpa"`
	RepeatedCreditHours *int     `json:"repeated_credit_hours"`
}

// Clamping

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ClampCourseCredits(v int) int {
	return clampInt(v, CourseMinCredits, CourseMaxCredits)
}

func ClampSemesterCredits(v int) int {
	return clampInt(v, SemesterMinCredits, SemesterMaxCredits)
}

// ClampGPA clamps v into [MinGPA, MaxGPA]; NaN becomes MinGPA.
func ClampGPA(v float64) float64 {
	if math.IsNaN(v) || v < MinGPA {
		return MinGPA
	}
	if v > MaxGPA {
		return MaxGPA
	}
	return v
}

func ClampRepeatedCredits(v, creditHours int) int {
	return clampInt(v, 0, creditHours)
}

// clamp brings every numeric field of s into its documented range.
func (s *Semester) clamp() {
	s.CreditHours = ClampSemesterCredits(s.CreditHours)
	s.GPA = ClampGPA(s.GPA)
	s.RepeatedCreditHours = ClampRepeatedCredits(s.RepeatedCreditHours, s.CreditHours)
}
