package echoapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gpacalc/core"
	"github.com/trezcool/gpacalc/core/gpa"
	"github.com/trezcool/gpacalc/core/grade"
)

func (s *server) stateResponse() stateResponse {
	st := s.opts.Store.Stats()
	return stateResponse{
		Revision:    s.opts.Store.Revision(),
		Model:       s.opts.Store.Snapshot(),
		Stats:       st,
		SemesterGPA: gpa.FormatGPA(st.SemesterGPA, st.HasSemesterGPA),
		CGPA:        gpa.FormatGPA(st.CGPA, st.HasCGPA),
	}
}

func (s *server) state(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.stateResponse())
}

func (s *server) scale(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, grade.All())
}

// Courses

func (s *server) addCourse(ctx echo.Context) error {
	data := gpa.NewCourse{CreditHours: gpa.DefaultCourseCredits}
	if err := bind(ctx, &data, "NewCourse"); err != nil {
		return err
	}
	c, err := s.opts.Store.AddCourse(data.Name, data.CreditHours)
	if err != nil {
		return errors.Wrap(err, "adding course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (s *server) updateCourse(ctx echo.Context) error {
	var data gpa.UpdateCourse
	if err := bind(ctx, &data, "UpdateCourse"); err != nil {
		return err
	}
	c, err := s.opts.Store.UpdateCourse(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (s *server) removeCourse(ctx echo.Context) error {
	s.opts.Store.RemoveCourse(ctx.Param("id"))
	return ctx.NoContent(http.StatusNoContent)
}

// Grades

func (s *server) setGrade(ctx echo.Context) error {
	var data gradeRequest
	if err := bind(ctx, &data, "gradeRequest"); err != nil {
		return err
	}
	label := grade.Normalize(data.Grade)
	if err := s.opts.Store.SetGrade(ctx.Param("id"), label); err != nil {
		if core.IsValidationError(err) {
			return unknownGradeError(data.Grade)
		}
		return errors.Wrap(err, "setting grade")
	}
	return ctx.JSON(http.StatusOK, s.stateResponse())
}

func (s *server) clearGrade(ctx echo.Context) error {
	if err := s.opts.Store.ClearGrade(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "clearing grade")
	}
	return ctx.JSON(http.StatusOK, s.stateResponse())
}

func unknownGradeError(label string) error {
	msg := "unknown grade " + strconv.Quote(label)
	if suggestions := grade.Suggest(label); len(suggestions) > 0 {
		msg += ", did you mean " + strings.Join(suggestions, " or ") + "?"
	}
	return core.NewValidationError(grade.ErrUnknownGrade, core.FieldError{Field: "grade", Error: msg})
}

func (s *server) resetGrades(ctx echo.Context) error {
	s.opts.Store.ResetCurrentTermGrades()
	return ctx.JSON(http.StatusOK, s.stateResponse())
}

// Semesters

func (s *server) addSemester(ctx echo.Context) error {
	var data gpa.NewSemester
	if err := bind(ctx, &data, "NewSemester"); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, s.opts.Store.AddSemester(data))
}

func (s *server) updateSemester(ctx echo.Context) error {
	var data gpa.UpdateSemester
	if err := bind(ctx, &data, "UpdateSemester"); err != nil {
		return err
	}
	sem, err := s.opts.Store.UpdateSemester(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating semester")
	}
	return ctx.JSON(http.StatusOK, sem)
}

func (s *server) removeSemester(ctx echo.Context) error {
	s.opts.Store.RemoveSemester(ctx.Param("id"))
	return ctx.NoContent(http.StatusNoContent)
}

func (s *server) clearAll(ctx echo.Context) error {
	s.opts.Store.ClearAll()
	return ctx.JSON(http.StatusOK, s.stateResponse())
}
