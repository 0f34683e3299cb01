package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gpacalc/core/gpa"
)

type (
	gradeRequest struct {
		Grade string `json:"grade"`
	}

	importRequest struct {
		Data string `json:"data"`
	}

	stateResponse struct {
		Revision    uint64    `json:"revision"`
		Model       gpa.Model `json:"model"`
		Stats       gpa.Stats `json:"stats"`
		SemesterGPA string    `json:"semester_gpa"`
		CGPA        string    `json:"cgpa"`
	}

	shareResponse struct {
		Link   string `json:"link"`
		Copied bool   `json:"copied"`
	}
)

// bind decodes the request body into dst, turning malformed bodies into 400s.
func bind(ctx echo.Context, dst interface{}, name string) error {
	if err := ctx.Bind(dst); err != nil {
		return errors.Wrap(err, "binding to "+name)
	}
	return nil
}
