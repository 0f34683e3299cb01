// Package share encodes a reduced projection of a gpa.Model into a single
// URL query parameter and decodes such parameters back, validating them
// as untrusted input.
package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/gpacalc/core"
	"github.com/trezcool/gpacalc/core/gpa"
	"github.com/trezcool/gpacalc/core/grade"
)

// MaxPayloadLen caps the encoded parameter; element counts are capped at 100 per list.
const MaxPayloadLen = 64 << 10

// ErrInvalidLink is the cause of every Decode failure.
var ErrInvalidLink = errors.New("invalid share link")

type (
	// payload is the wire format: {"c":[...],"g":[...],"s":[...]}.
	payload struct {
		Courses   []wireCourse   `json:"c,omitempty" validate:"max=100,dive"`
		Grades    []wireGrade    `json:"g,omitempty" validate:"max=100,dive"`
		Semesters []wireSemester `json:"s,omitempty" validate:"max=100,dive"`
	}

	wireCourse struct {
		Name        *string  `json:"n" validate:"required"`
		CreditHours *float64 `json:"cr" validate:"required,min=1,max=30"`
	}

	wireGrade struct {
		Index *float64 `json:"i" validate:"required"`
		Label *string  `json:"g" validate:"required"`
	}

	wireSemester struct {
		Name        *string  `json:"n" validate:"required"`
		CreditHours *float64 `json:"cr" validate:"required,min=1,max=50"`
		GPA         *float64 `json:"g" validate:"required,min=0,max=4"`
		Repeated    *float64 `json:"r,omitempty" validate:"omitempty,min=0,max=50"`
	}
)

// Encode projects m to the wire format: course names and credits in list order,
// grades by course position, semester names, credits, GPAs and repeated credits.
// Semesters without credits are empty slots and are left out.
func Encode(m gpa.Model) (string, error) {
	var p payload
	for i, c := range m.Courses {
		name, cr := c.Name, float64(c.CreditHours)
		p.Courses = append(p.Courses, wireCourse{Name: &name, CreditHours: &cr})
		if label, ok := m.Grades[c.ID]; ok {
			idx, lbl := float64(i), label
			p.Grades = append(p.Grades, wireGrade{Index: &idx, Label: &lbl})
		}
	}
	for _, s := range m.Semesters {
		if s.CreditHours < 1 {
			continue
		}
		name, cr, g := s.Name, float64(s.CreditHours), s.GPA
		ws := wireSemester{Name: &name, CreditHours: &cr, GPA: &g}
		if s.RepeatedCreditHours > 0 {
			r := float64(s.RepeatedCreditHours)
			ws.Repeated = &r
		}
		p.Semesters = append(p.Semesters, ws)
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return "", errors.Wrap(err, "encoding share payload")
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Link returns baseURL with the encoded model set as the `param` query parameter.
func Link(baseURL, param string, m gpa.Model) (string, error) {
	data, err := Encode(m)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing base url")
	}
	q := u.Query()
	q.Set(param, data)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Decode validates an encoded payload and builds a fresh Model from it.
// Any structural problem fails the whole decode with ErrInvalidLink; names are
// sanitized, unknown grade labels and out-of-range course indexes are dropped,
// and every course and semester gets a new id.
func Decode(data string) (gpa.Model, error) {
	p, err := parse(data)
	if err != nil {
		return gpa.Model{}, errors.Wrap(ErrInvalidLink, err.Error())
	}

	m := gpa.Model{
		Courses:   make([]gpa.Course, 0, len(p.Courses)),
		Grades:    make(gpa.Grades, len(p.Grades)),
		Semesters: make([]gpa.Semester, 0, len(p.Semesters)),
	}
	for i, wc := range p.Courses {
		name := core.Sanitize(*wc.Name, gpa.CourseNameMaxLen)
		if name == "" {
			name = "Course " + strconv.Itoa(i+1)
		}
		m.Courses = append(m.Courses, gpa.Course{
			ID:          core.NewID(),
			Name:        name,
			CreditHours: gpa.ClampCourseCredits(int(math.Round(*wc.CreditHours))),
		})
	}
	for _, wg := range p.Grades {
		idx := *wg.Index
		if idx != math.Trunc(idx) || idx < 0 || idx >= float64(len(m.Courses)) {
			continue
		}
		if !grade.IsValid(*wg.Label) {
			continue
		}
		m.Grades[m.Courses[int(idx)].ID] = *wg.Label
	}
	for i, ws := range p.Semesters {
		name := core.Sanitize(*ws.Name, gpa.SemesterNameMaxLen)
		if name == "" {
			name = "Semester " + strconv.Itoa(i+1)
		}
		sem := gpa.Semester{
			ID:          core.NewID(),
			Name:        name,
			CreditHours: gpa.ClampSemesterCredits(int(math.Round(*ws.CreditHours))),
			GPA:         gpa.ClampGPA(*ws.GPA),
		}
		if ws.Repeated != nil {
			sem.RepeatedCreditHours = gpa.ClampRepeatedCredits(int(math.Round(*ws.Repeated)), sem.CreditHours)
		}
		m.Semesters = append(m.Semesters, sem)
	}
	return m, nil
}

// parse turns data into a structurally valid payload.
func parse(data string) (payload, error) {
	var p payload
	data = strings.TrimSpace(data)
	if data == "" {
		return p, errors.New("empty payload")
	}
	if len(data) > MaxPayloadLen {
		return p, errors.New("payload too large")
	}

	raw, err := decodeBase64(data)
	if err != nil {
		return p, errors.Wrap(err, "decoding base64")
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return p, errors.New("payload is not an object")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err = dec.Decode(&p); err != nil {
		return p, errors.Wrap(err, "decoding json")
	}
	if dec.More() {
		return p, errors.New("trailing data after payload")
	}

	if err = core.Validate.Struct(p); err != nil {
		if vErrs, ok := err.(validator.ValidationErrors); ok && len(vErrs) > 0 {
			return p, errors.Errorf("%s: %s", vErrs[0].Namespace(), vErrs[0].Translate(core.Translator))
		}
		return p, errors.Wrap(err, "validating payload")
	}
	return p, nil
}

// decodeBase64 accepts the standard and URL-safe alphabets, padded or not.
// Spaces are read as '+' that lost their escaping in a query string.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimRight(strings.ReplaceAll(s, " ", "+"), "=")
	if strings.ContainsAny(s, "-_") {
		return base64.RawURLEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}
