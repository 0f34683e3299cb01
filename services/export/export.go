// Package export renders the derived GPA statistics as a PDF report and a PNG trend chart.
package export

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/trezcool/gpacalc/core"
	"github.com/trezcool/gpacalc/core/gpa"
)

const chartFontSize = 12

type Result struct {
	PDF   []byte
	Chart []byte
}

// Render builds the report and the chart of st concurrently. st is only read.
func Render(ctx context.Context, conf core.ExportConfig, st gpa.Stats, now time.Time) (Result, error) {
	var res Result
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res.PDF = Report(conf.Title, st, now)
		return nil
	})
	g.Go(func() error {
		face, err := LoadFace(conf.FontPath, chartFontSize)
		if err != nil {
			return err
		}
		if err = ctx.Err(); err != nil {
			return err
		}
		res.Chart, err = Chart(st, face)
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return res, nil
}
