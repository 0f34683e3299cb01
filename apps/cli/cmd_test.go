package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gpacalc/core"
	"github.com/trezcool/gpacalc/core/gpa"
	"github.com/trezcool/gpacalc/core/share"
	clipboardsvc "github.com/trezcool/gpacalc/services/clipboard"
	"github.com/trezcool/gpacalc/tests"
)

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    string
}

func setup(t *testing.T) (*commandLine, *bytes.Buffer, *clipboardsvc.ConsoleSink) {
	t.Helper()
	store, _, logger := testutil.NewStore(t)
	out := &bytes.Buffer{}
	sink := clipboardsvc.NewConsoleSink(out)
	return &commandLine{
		store: store,
		conf: &core.Config{
			Share:  core.ShareConfig{BaseURL: "http://localhost:8000/", Param: "data"},
			Export: core.ExportConfig{Title: "GPA Report"},
		},
		log:       logger,
		clipboard: sink,
		out:       out,
	}, out, sink
}

func runAll(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"gpacalc"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			default:
				assert.NoError(t, err)
			}
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	cli, out, _ := setup(t)
	runAll(t, cli, out, []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: "Usage:"},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "help flag", args: []string{"show", "-h"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"show", "-lol"}, wantErrStr: "flag provided but not defined: -lol"},
		{name: "update-course without id", args: []string{"update-course", "-name", "x"}, wantErr: errHelp},
		{name: "update-course without changes", args: []string{"update-course", "-id", "1"}, wantErr: errHelp},
		{name: "grade without label", args: []string{"grade", "-id", "1"}, wantErr: errHelp},
		{name: "rm-course without id", args: []string{"rm-course"}, wantErr: errHelp},
		{name: "import without payload", args: []string{"import"}, wantErr: errHelp},
		{name: "export without targets", args: []string{"export"}, wantErr: errHelp},
		{name: "scale", args: []string{"scale"}, wantOut: "B+     3.33"},
	})
}

func Test_commandLine_courses(t *testing.T) {
	cli, out, _ := setup(t)
	runAll(t, cli, out, []cliTest{
		{name: "add", args: []string{"add-course", "-name", "Compilers", "-credits", "4"}, wantOut: `added course "Compilers" (4 cr)`},
		{name: "add with default credits", args: []string{"add-course", "-name", "Graphics"}, wantOut: `added course "Graphics" (3 cr)`},
		{name: "add blank", args: []string{"add-course", "-name", " "}, wantErrStr: "name cannot be blank"},
		{name: "rename by position", args: []string{"update-course", "-id", "1", "-name", "Calculus"}, wantOut: `updated course "Calculus" (3 cr)`},
		{name: "update unknown", args: []string{"update-course", "-id", "9", "-credits", "2"}, wantErr: gpa.ErrCourseNotFound},
		{name: "grade", args: []string{"grade", "-id", "1", "-grade", "a"}, wantOut: "Semester GPA: 4.00\nCGPA: 4.00"},
		{name: "grade second", args: []string{"grade", "-id", "2", "-grade", "B"}, wantOut: "Semester GPA: 3.43"},
		{name: "unknown grade", args: []string{"grade", "-id", "2", "-grade", "A+"}, wantErrStr: `unknown grade "A+", did you mean A or A- or B+?`},
		{name: "ungrade", args: []string{"ungrade", "-id", "2"}, wantOut: "Semester GPA: 4.00"},
		{name: "remove", args: []string{"rm-course", "-id", "3"}},
		{name: "show", args: []string{"show"}, wantOut: "Total credit hours: 7"},
		{name: "reset grades", args: []string{"reset-grades"}},
		{name: "show after reset", args: []string{"show"}, wantOut: "Semester GPA: " + gpa.Placeholder},
	})
	assert.Len(t, cli.store.Snapshot().Courses, 2)
}

func Test_commandLine_semesters(t *testing.T) {
	cli, out, _ := setup(t)
	runAll(t, cli, out, []cliTest{
		{name: "add", args: []string{"add-semester", "-credits", "15", "-gpa", "3.0", "-repeated", "3"}, wantOut: `added semester "Semester 1" (15 cr, GPA 3.00)`},
		{name: "clamped", args: []string{"add-semester", "-name", "Wild", "-credits", "-5", "-gpa", "5.2"}, wantOut: `added semester "Wild" (0 cr, GPA 4.00)`},
		{name: "update", args: []string{"update-semester", "-id", "2", "-credits", "12", "-gpa", "3.5"}, wantOut: `updated semester "Wild" (12 cr, GPA 3.50)`},
		{name: "update without changes", args: []string{"update-semester", "-id", "2"}, wantErr: errHelp},
		{name: "update unknown", args: []string{"update-semester", "-id", "nope", "-gpa", "3"}, wantErr: gpa.ErrSemesterNotFound},
		{name: "show", args: []string{"show"}, wantOut: "15 (3 repeated)"},
		{name: "remove", args: []string{"rm-semester", "-id", "1"}},
	})
	require.Len(t, cli.store.Snapshot().Semesters, 1)
	assert.Equal(t, "Wild", cli.store.Snapshot().Semesters[0].Name)
}

func Test_commandLine_clear(t *testing.T) {
	cli, out, _ := setup(t)
	testutil.AddCourse(t, cli.store, "Extra", 3, "A")

	origIsTerminal, origConfirm := isTerminalFunc, confirmFunc
	t.Cleanup(func() { isTerminalFunc, confirmFunc = origIsTerminal, origConfirm })

	var terminal, confirmed bool
	isTerminalFunc = func(int) bool { return terminal }
	confirmFunc = func() (bool, error) { return confirmed, nil }

	runAll(t, cli, out, []cliTest{
		{name: "no terminal", args: []string{"clear"}, wantErr: errAborted, wantOut: "pass -yes"},
	})
	terminal = true
	runAll(t, cli, out, []cliTest{
		{name: "declined", args: []string{"clear"}, wantErr: errAborted, wantOut: "Continue? [y/N]"},
	})
	assert.Len(t, cli.store.Snapshot().Courses, 2)

	confirmed = true
	runAll(t, cli, out, []cliTest{{name: "confirmed", args: []string{"clear"}}})
	assert.Len(t, cli.store.Snapshot().Courses, 1)

	testutil.AddCourse(t, cli.store, "Again", 3)
	terminal, confirmed = false, false
	runAll(t, cli, out, []cliTest{{name: "forced", args: []string{"clear", "-yes"}}})
	assert.Len(t, cli.store.Snapshot().Courses, 1)
}

func Test_commandLine_shareImport(t *testing.T) {
	cli, out, sink := setup(t)
	testutil.AddCourse(t, cli.store, "Networks", 3, "B+")
	cli.store.AddSemester(gpa.NewSemester{Name: "Fall", CreditHours: 15, GPA: 3.2})

	require.NoError(t, cli.run([]string{"gpacalc", "share"}))
	require.Len(t, sink.Copied(), 1)
	link := sink.Copied()[0]
	assert.Contains(t, out.String(), link)

	other, otherOut, _ := setup(t)
	runAll(t, other, otherOut, []cliTest{
		{name: "import link", args: []string{"import", link}},
		{name: "import garbage", args: []string{"import", "garbage"}, wantErrStr: "payload is not an object: invalid share link"},
	})
	m := other.store.Snapshot()
	require.Len(t, m.Courses, 2)
	assert.Equal(t, "Networks", m.Courses[1].Name)
	assert.Equal(t, "B+", m.Grades[m.Courses[1].ID])

	data, err := share.Encode(cli.store.Snapshot())
	require.NoError(t, err)
	third, thirdOut, _ := setup(t)
	runAll(t, third, thirdOut, []cliTest{
		{name: "import payload", args: []string{"import", data}, wantOut: "imported 2 courses and 1 semesters"},
	})
}

func Test_commandLine_export(t *testing.T) {
	cli, out, _ := setup(t)
	require.NoError(t, cli.store.SetGrade(cli.store.Snapshot().Courses[0].ID, "A"))
	dir := t.TempDir()
	pdfPath, chartPath := filepath.Join(dir, "report.pdf"), filepath.Join(dir, "trend.png")

	runAll(t, cli, out, []cliTest{
		{name: "both", args: []string{"export", "-pdf", pdfPath, "-chart", chartPath}, wantOut: "wrote " + chartPath},
	})
	b, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "%PDF-"))
	b, err = os.ReadFile(chartPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "\x89PNG"))
}
