package gpa

import (
	"sort"
	"strconv"

	"github.com/trezcool/gpacalc/core/grade"
)

// Placeholder is rendered in place of an absent GPA.
const Placeholder = "—"

type (
	CourseStats struct {
		ID            string  `json:"id"`
		Name          string  `json:"name"`
		CreditHours   int     `json:"credit_hours"`
		Grade         string  `json:"grade,omitempty"`
		Graded        bool    `json:"graded"`
		QualityPoints float64 `json:"quality_points"`
	}

	SemesterStats struct {
		ID                  string  `json:"id"`
		Name                string  `json:"name"`
		CreditHours         int     `json:"credit_hours"`
		RepeatedCreditHours int     `json:"repeated_credit_hours"`
		EffectiveCredits    int     `json:"effective_credits"`
		GPA                 float64 `json:"gpa"`
		QualityPoints       float64 `json:"quality_points"`
		// Included is false for slots with a zero GPA or zero effective credits.
		Included bool `json:"included"`
	}

	// TrendPoint is one step of the GPA trend chart.
	TrendPoint struct {
		Label string  `json:"label"`
		GPA   float64 `json:"gpa"`
		CGPA  float64 `json:"cgpa"`
	}

	// Stats is the render model derived from a Model.
	Stats struct {
		CourseCount    int     `json:"course_count"`
		GradedCount    int     `json:"graded_count"`
		TotalCredits   int     `json:"total_credits"`
		GradedCredits  int     `json:"graded_credits"`
		SemesterGPA    float64 `json:"semester_gpa"`
		HasSemesterGPA bool    `json:"has_semester_gpa"`
		CGPA           float64 `json:"cgpa"`
		HasCGPA        bool    `json:"has_cgpa"`
		PriorCredits   int     `json:"prior_credits"`
		PriorPoints    float64 `json:"prior_points"`

		Courses   []CourseStats   `json:"courses"`
		Semesters []SemesterStats `json:"semesters"`
		Trend     []TrendPoint    `json:"trend"`
	}
)

// gradedPoints returns the quality point of the course's grade, if it has a valid one.
func gradedPoints(c Course, grades Grades) (float64, bool) {
	label, ok := grades[c.ID]
	if !ok {
		return 0, false
	}
	qp, err := grade.Lookup(label)
	if err != nil {
		return 0, false
	}
	return qp, true
}

func termTotals(courses []Course, grades Grades) (points float64, credits int) {
	for _, c := range courses {
		if c.CreditHours <= 0 {
			continue
		}
		if qp, ok := gradedPoints(c, grades); ok {
			points += qp * float64(c.CreditHours)
			credits += c.CreditHours
		}
	}
	return points, credits
}

// SemesterGPA is the credit-weighted average quality point of the graded courses.
// ok is false when no course carries a grade.
func SemesterGPA(courses []Course, grades Grades) (gpa float64, ok bool) {
	points, credits := termTotals(courses, grades)
	if credits == 0 {
		return 0, false
	}
	return points / float64(credits), true
}

// ActiveCredits sums the credit hours of graded courses.
func ActiveCredits(courses []Course, grades Grades) int {
	_, credits := termTotals(courses, grades)
	return credits
}

// EffectiveCredits excludes repeated credits: max(0, credits - repeated).
func EffectiveCredits(s Semester) int {
	if eff := s.CreditHours - s.RepeatedCreditHours; eff > 0 {
		return eff
	}
	return 0
}

// isEntered reports whether s takes part in cumulative aggregation.
// A 0.00 GPA reads as "not yet entered".
func isEntered(s Semester) bool {
	return EffectiveCredits(s) > 0 && s.GPA > 0
}

func priorTotals(semesters []Semester) (points float64, credits int) {
	for _, s := range semesters {
		if !isEntered(s) {
			continue
		}
		eff := EffectiveCredits(s)
		points += s.GPA * float64(eff)
		credits += eff
	}
	return points, credits
}

// CumulativeGPA combines historical semester summaries with the current term.
// With no entered history it collapses to the semester GPA.
func CumulativeGPA(semesters []Semester, semesterGPA float64, hasSemesterGPA bool, activeCredits int) (float64, bool) {
	priorPoints, priorCredits := priorTotals(semesters)
	if priorCredits == 0 {
		return semesterGPA, hasSemesterGPA
	}
	if !hasSemesterGPA {
		activeCredits = 0
	}
	points := priorPoints + semesterGPA*float64(activeCredits)
	return points / float64(priorCredits+activeCredits), true
}

// CumulativeFromCourses reduces individual historical courses (valid grades only)
// and the current term directly into one weighted average.
func CumulativeFromCourses(historical []HistoricalCourse, courses []Course, grades Grades) (float64, bool) {
	points, credits := termTotals(courses, grades)
	for _, hc := range historical {
		if hc.CreditHours <= 0 {
			continue
		}
		qp, err := grade.Lookup(hc.Grade)
		if err != nil {
			continue
		}
		points += qp * float64(hc.CreditHours)
		credits += hc.CreditHours
	}
	if credits == 0 {
		return 0, false
	}
	return points / float64(credits), true
}

// SummarizeCourses groups historical courses by semester index into display summaries.
// Courses without a valid grade are left out.
func SummarizeCourses(historical []HistoricalCourse) []Semester {
	type acc struct {
		points  float64
		credits int
	}
	bySemester := make(map[int]*acc)
	indexes := make([]int, 0)
	for _, hc := range historical {
		qp, err := grade.Lookup(hc.Grade)
		if err != nil || hc.CreditHours <= 0 {
			continue
		}
		a, ok := bySemester[hc.SemesterIndex]
		if !ok {
			a = &acc{}
			bySemester[hc.SemesterIndex] = a
			indexes = append(indexes, hc.SemesterIndex)
		}
		a.points += qp * float64(hc.CreditHours)
		a.credits += hc.CreditHours
	}
	sort.Ints(indexes)

	semesters := make([]Semester, 0, len(indexes))
	for _, idx := range indexes {
		a := bySemester[idx]
		semesters = append(semesters, Semester{
			Name:        "Semester " + strconv.Itoa(idx+1),
			CreditHours: a.credits,
			GPA:         a.points / float64(a.credits),
		})
	}
	return semesters
}

// Recompute derives the render model from m. It has no side effects.
func Recompute(m Model) Stats {
	st := Stats{
		CourseCount: len(m.Courses),
		Courses:     make([]CourseStats, 0, len(m.Courses)),
		Semesters:   make([]SemesterStats, 0, len(m.Semesters)),
		Trend:       make([]TrendPoint, 0, len(m.Semesters)+1),
	}

	for _, c := range m.Courses {
		cs := CourseStats{ID: c.ID, Name: c.Name, CreditHours: c.CreditHours}
		st.TotalCredits += c.CreditHours
		if qp, ok := gradedPoints(c, m.Grades); ok {
			cs.Grade = m.Grades[c.ID]
			cs.Graded = true
			cs.QualityPoints = qp * float64(c.CreditHours)
			st.GradedCount++
		}
		st.Courses = append(st.Courses, cs)
	}
	st.GradedCredits = ActiveCredits(m.Courses, m.Grades)
	st.SemesterGPA, st.HasSemesterGPA = SemesterGPA(m.Courses, m.Grades)
	st.CGPA, st.HasCGPA = CumulativeGPA(m.Semesters, st.SemesterGPA, st.HasSemesterGPA, st.GradedCredits)

	var runPoints float64
	var runCredits int
	for _, s := range m.Semesters {
		ss := SemesterStats{
			ID:                  s.ID,
			Name:                s.Name,
			CreditHours:         s.CreditHours,
			RepeatedCreditHours: s.RepeatedCreditHours,
			EffectiveCredits:    EffectiveCredits(s),
			GPA:                 s.GPA,
			Included:            isEntered(s),
		}
		if ss.Included {
			ss.QualityPoints = s.GPA * float64(ss.EffectiveCredits)
			runPoints += ss.QualityPoints
			runCredits += ss.EffectiveCredits
			st.Trend = append(st.Trend, TrendPoint{
				Label: s.Name,
				GPA:   s.GPA,
				CGPA:  runPoints / float64(runCredits),
			})
		}
		st.Semesters = append(st.Semesters, ss)
	}
	st.PriorPoints, st.PriorCredits = runPoints, runCredits

	if st.HasSemesterGPA {
		st.Trend = append(st.Trend, TrendPoint{Label: "Current", GPA: st.SemesterGPA, CGPA: st.CGPA})
	}
	return st
}

// FormatGPA rounds v to two decimals for display, or returns the Placeholder.
func FormatGPA(v float64, ok bool) string {
	if !ok {
		return Placeholder
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
