package gpa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func course(id string, credits int) Course {
	return Course{ID: id, Name: "Course " + id, CreditHours: credits}
}

func TestSemesterGPA(t *testing.T) {
	tests := []struct {
		name    string
		courses []Course
		grades  Grades
		want    float64
		wantOK  bool
	}{
		{
			name:    "weighted average",
			courses: []Course{course("1", 3), course("2", 2)},
			grades:  Grades{"1": "A", "2": "B"},
			want:    3.60,
			wantOK:  true,
		},
		{
			name:    "ungraded courses are ignored",
			courses: []Course{course("1", 3), course("2", 4), course("3", 1)},
			grades:  Grades{"1": "B+", "3": "F"},
			want:    (3.33*3 + 0*1) / 4,
			wantOK:  true,
		},
		{
			name:    "no grades is absent, not zero",
			courses: []Course{course("1", 3), course("2", 2)},
			grades:  Grades{},
		},
		{
			name:    "invalid labels are ignored",
			courses: []Course{course("1", 3)},
			grades:  Grades{"1": "Z"},
		},
		{
			name:    "all F is a real 0.00",
			courses: []Course{course("1", 3)},
			grades:  Grades{"1": "F"},
			want:    0,
			wantOK:  true,
		},
		{name: "no courses"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SemesterGPA(tt.courses, tt.grades)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, tolerance)
		})
	}
}

func TestEffectiveCredits(t *testing.T) {
	s := Semester{CreditHours: 15, GPA: 3.0, RepeatedCreditHours: 3}
	assert.Equal(t, 12, EffectiveCredits(s))

	points, credits := priorTotals([]Semester{s})
	assert.Equal(t, 12, credits)
	assert.InDelta(t, 36.0, points, tolerance)

	assert.Equal(t, 0, EffectiveCredits(Semester{CreditHours: 3, RepeatedCreditHours: 5}))
}

func TestCumulativeGPA(t *testing.T) {
	t.Run("no history collapses to semester gpa", func(t *testing.T) {
		got, ok := CumulativeGPA(nil, 3.25, true, 12)
		assert.True(t, ok)
		assert.Equal(t, 3.25, got)

		got, ok = CumulativeGPA(nil, 0, false, 0)
		assert.False(t, ok)
		assert.Equal(t, 0.0, got)
	})

	t.Run("empty history slots collapse to semester gpa", func(t *testing.T) {
		empty := []Semester{{CreditHours: 0, GPA: 0}, {CreditHours: 15, GPA: 0}, {CreditHours: 0, GPA: 3.5}}
		got, ok := CumulativeGPA(empty, 3.25, true, 12)
		assert.True(t, ok)
		assert.Equal(t, 3.25, got)
	})

	t.Run("prior and current terms", func(t *testing.T) {
		prior := []Semester{{CreditHours: 50, GPA: 3.0}, {CreditHours: 50, GPA: 3.0}}
		got, ok := CumulativeGPA(prior, 3.50, true, 15)
		assert.True(t, ok)
		assert.InDelta(t, 352.5/115, got, tolerance)
		assert.Equal(t, "3.07", FormatGPA(got, ok))
	})

	t.Run("history without current grades", func(t *testing.T) {
		prior := []Semester{{CreditHours: 15, GPA: 3.0, RepeatedCreditHours: 3}, {CreditHours: 12, GPA: 2.0}}
		got, ok := CumulativeGPA(prior, 0, false, 0)
		assert.True(t, ok)
		assert.InDelta(t, (36.0+24.0)/24, got, tolerance)
	})

	t.Run("a 0.00 semester is not counted", func(t *testing.T) {
		prior := []Semester{{CreditHours: 15, GPA: 0}, {CreditHours: 15, GPA: 2.0}}
		got, ok := CumulativeGPA(prior, 4.0, true, 15)
		assert.True(t, ok)
		assert.InDelta(t, 3.0, got, tolerance)
	})
}

func TestCumulativeFromCourses(t *testing.T) {
	first, second := 0, 1
	historical := []HistoricalCourse{
		{Name: "Calc", CreditHours: 3, SemesterIndex: first, Grade: "A"},
		{Name: "Phys", CreditHours: 3, SemesterIndex: first, Grade: "B"},
		{Name: "Chem", CreditHours: 4, SemesterIndex: second, Grade: "C+"},
		{Name: "Calc", CreditHours: 3, SemesterIndex: second, Grade: "A-", IsRepeat: true, OriginalSemesterIndex: &first},
		{Name: "Draft", CreditHours: 3, SemesterIndex: second, Grade: ""},
	}
	courses := []Course{course("1", 3), course("2", 2)}
	grades := Grades{"1": "A", "2": "B"}

	got, ok := CumulativeFromCourses(historical, courses, grades)
	require.True(t, ok)
	// the repeat does not exclude the original attempt
	want := (12 + 9 + 4*2.33 + 3*3.67 + 12 + 6) / 18
	assert.InDelta(t, want, got, tolerance)

	// grouping into summaries gives the same result for non-zero semesters
	summaries := SummarizeCourses(historical)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Semester 1", summaries[0].Name)
	assert.Equal(t, 6, summaries[0].CreditHours)
	assert.InDelta(t, 3.5, summaries[0].GPA, tolerance)
	assert.Equal(t, 7, summaries[1].CreditHours)

	semGPA, hasSem := SemesterGPA(courses, grades)
	viaSummaries, ok := CumulativeGPA(summaries, semGPA, hasSem, ActiveCredits(courses, grades))
	require.True(t, ok)
	assert.InDelta(t, got, viaSummaries, tolerance)

	_, ok = CumulativeFromCourses(nil, nil, nil)
	assert.False(t, ok)
}

func TestRecompute(t *testing.T) {
	m := Model{
		Courses:   []Course{course("1", 3), course("2", 2), course("3", 4)},
		Grades:    Grades{"1": "A", "2": "B"},
		Semesters: []Semester{{ID: "s1", Name: "Fall", CreditHours: 15, GPA: 3.0, RepeatedCreditHours: 3}, {ID: "s2", Name: "Spring", CreditHours: 0}},
	}
	st := Recompute(m)

	assert.Equal(t, 3, st.CourseCount)
	assert.Equal(t, 2, st.GradedCount)
	assert.Equal(t, 9, st.TotalCredits)
	assert.Equal(t, 5, st.GradedCredits)
	assert.True(t, st.HasSemesterGPA)
	assert.InDelta(t, 3.6, st.SemesterGPA, tolerance)
	assert.True(t, st.HasCGPA)
	assert.InDelta(t, (36.0+18.0)/17, st.CGPA, tolerance)
	assert.Equal(t, 12, st.PriorCredits)
	assert.InDelta(t, 36.0, st.PriorPoints, tolerance)

	require.Len(t, st.Courses, 3)
	assert.InDelta(t, 12.0, st.Courses[0].QualityPoints, tolerance)
	assert.False(t, st.Courses[2].Graded)

	require.Len(t, st.Semesters, 2)
	assert.True(t, st.Semesters[0].Included)
	assert.False(t, st.Semesters[1].Included)

	require.Len(t, st.Trend, 2)
	assert.Equal(t, TrendPoint{Label: "Fall", GPA: 3.0, CGPA: 3.0}, st.Trend[0])
	assert.Equal(t, "Current", st.Trend[1].Label)
	assert.InDelta(t, st.CGPA, st.Trend[1].CGPA, tolerance)

	// pure: same input, same output
	assert.Equal(t, st, Recompute(m))
}

func TestFormatGPA(t *testing.T) {
	assert.Equal(t, "3.07", FormatGPA(3.0652173913, true))
	assert.Equal(t, "4.00", FormatGPA(4, true))
	assert.Equal(t, "0.00", FormatGPA(0, true))
	assert.Equal(t, Placeholder, FormatGPA(0, false))
}
