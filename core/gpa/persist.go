package gpa

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/gpacalc/core"
	"github.com/trezcool/gpacalc/core/grade"
)

// SchemaVersion is written with every persisted entry.
const SchemaVersion = 1

// Persisted keys
const (
	KeyCourses   = "courses"
	KeyGrades    = "grades"
	KeySemesters = "semesters"
)

var (
	// ErrKeyNotFound is returned by a DurableStore for absent keys.
	ErrKeyNotFound = errors.New("key not found")

	errSchemaVersion = errors.New("unsupported schema version")
	errNullData      = errors.New("null data")
)

// DurableStore is a key-value store that survives restarts.
// Nothing it returns is trusted.
type DurableStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

func marshalEntry(data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: SchemaVersion, Data: raw})
}

func unmarshalEntry(b []byte, dst interface{}) error {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return errors.Wrap(err, "decoding envelope")
	}
	if env.Version != SchemaVersion {
		return errors.Wrapf(errSchemaVersion, "version %d", env.Version)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return errNullData
	}
	return errors.Wrap(json.Unmarshal(env.Data, dst), "decoding data")
}

// readEntry decodes key into dst. It reports false when the key is absent or unusable.
func (s *Store) readEntry(key string, dst interface{}) bool {
	b, err := s.db.Get(key)
	if err != nil {
		if errors.Cause(err) != ErrKeyNotFound {
			s.log.Warn("reading persisted state", "key", key, "error", err)
		}
		return false
	}
	if err = unmarshalEntry(b, dst); err != nil {
		s.log.Warn("discarding corrupt persisted state", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) writeEntry(key string, data interface{}) {
	b, err := marshalEntry(data)
	if err == nil {
		err = s.db.Set(key, b)
	}
	if err != nil {
		s.log.Error("persisting state", "key", key, "error", err)
	}
}

// load reads the persisted model, falling back to defaults per key.
func (s *Store) load() Model {
	m := DefaultModel()

	var courses []Course
	if s.readEntry(KeyCourses, &courses) {
		m.Courses = courses
	}
	var grades Grades
	if s.readEntry(KeyGrades, &grades) {
		m.Grades = grades
	}
	var semesters []Semester
	if s.readEntry(KeySemesters, &semesters) {
		m.Semesters = semesters
	}
	return normalize(m)
}

func (s *Store) persist() {
	s.writeEntry(KeyCourses, s.m.Courses)
	s.writeEntry(KeyGrades, s.m.Grades)
	s.writeEntry(KeySemesters, s.m.Semesters)
}

// normalize re-applies every model invariant to data from an untrusted source:
// names are sanitized, numbers clamped, missing or duplicate ids regenerated and
// grades restricted to known courses and valid labels.
func normalize(m Model) Model {
	out := Model{
		Courses:   make([]Course, 0, len(m.Courses)),
		Grades:    make(Grades, len(m.Grades)),
		Semesters: make([]Semester, 0, len(m.Semesters)),
	}

	seen := make(map[string]bool, len(m.Courses)+len(m.Semesters))
	freshID := func(id string) string {
		if !core.IsValidID(id) || seen[id] {
			id = core.NewID()
		}
		seen[id] = true
		return id
	}

	for i, c := range m.Courses {
		origID := c.ID
		c.ID = freshID(c.ID)
		c.Name = core.Sanitize(c.Name, CourseNameMaxLen)
		if c.Name == "" {
			c.Name = "Course " + strconv.Itoa(i+1)
		}
		c.CreditHours = ClampCourseCredits(c.CreditHours)
		if label, ok := m.Grades[origID]; ok && c.ID == origID && grade.IsValid(label) {
			out.Grades[c.ID] = label
		}
		out.Courses = append(out.Courses, c)
	}

	for i, sem := range m.Semesters {
		sem.ID = freshID(sem.ID)
		sem.Name = core.Sanitize(sem.Name, SemesterNameMaxLen)
		if sem.Name == "" {
			sem.Name = "Semester " + strconv.Itoa(i+1)
		}
		sem.clamp()
		out.Semesters = append(out.Semesters, sem)
	}
	return out
}
