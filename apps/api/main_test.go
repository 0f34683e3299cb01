package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gpacalc/core/gpa"
	"github.com/trezcool/gpacalc/core/share"
	testutil "github.com/trezcool/gpacalc/tests"
)

func TestImportLaunchLink(t *testing.T) {
	shared := gpa.Model{
		Courses: []gpa.Course{{ID: "c1", Name: "Algebra", CreditHours: 4}},
		Grades:  gpa.Grades{"c1": "B+"},
	}
	link, err := share.Link("http://localhost:8000/", "data", shared)
	require.NoError(t, err)

	tests := []struct {
		name        string
		arg         string
		wantCourse  string
		wantErrLine bool
	}{
		{name: "valid link", arg: link, wantCourse: "Algebra"},
		{name: "rejected link", arg: "http://localhost:8000/?data=AAAA", wantCourse: "Course 1", wantErrLine: true},
		{name: "no share param", arg: "http://localhost:8000/", wantCourse: "Course 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _, logger := testutil.NewStore(t)
			var stderr bytes.Buffer

			importLaunchLink(store, tt.arg, "data", logger, &stderr)

			courses := store.Snapshot().Courses
			require.Len(t, courses, 1)
			assert.Equal(t, tt.wantCourse, courses[0].Name)
			if tt.wantErrLine {
				assert.Contains(t, stderr.String(), "invalid share link")
				assert.Equal(t, 1, logger.Count("error"))
			} else {
				assert.Empty(t, stderr.String())
				assert.Zero(t, logger.Count("error"))
			}
		})
	}
}
