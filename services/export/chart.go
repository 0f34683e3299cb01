package export

import (
	"bytes"
	"os"
	"strconv"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/trezcool/gpacalc/core/gpa"
)

const (
	chartWidth   = 800
	chartHeight  = 400
	chartPadding = 50.0
)

// LoadFace parses the TrueType font at path. An empty path selects the built-in bitmap face.
func LoadFace(path string, size float64) (font.Face, error) {
	if path == "" {
		return basicfont.Face7x13, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading font")
	}
	f, err := truetype.Parse(b)
	if err != nil {
		return nil, errors.Wrap(err, "parsing font")
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone}), nil
}

// Chart draws the GPA trend of st (semester GPA and running CGPA) as a PNG image.
func Chart(st gpa.Stats, face font.Face) ([]byte, error) {
	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(face)

	plotW := chartWidth - 2*chartPadding
	plotH := chartHeight - 2*chartPadding
	y := func(v float64) float64 {
		return chartHeight - chartPadding - v/gpa.MaxGPA*plotH
	}

	// horizontal grid, one line per grade point
	dc.SetLineWidth(1)
	for v := gpa.MinGPA; v <= gpa.MaxGPA; v++ {
		dc.SetRGB(0.88, 0.88, 0.88)
		dc.DrawLine(chartPadding, y(v), chartWidth-chartPadding, y(v))
		dc.Stroke()
		dc.SetRGB(0.3, 0.3, 0.3)
		dc.DrawStringAnchored(strconv.FormatFloat(v, 'f', 1, 64), chartPadding-8, y(v), 1, 0.5)
	}

	n := len(st.Trend)
	if n == 0 {
		dc.SetRGB(0.4, 0.4, 0.4)
		dc.DrawStringAnchored("No GPA data yet", chartWidth/2, chartHeight/2, 0.5, 0.5)
		return encodePNG(dc)
	}
	x := func(i int) float64 {
		if n == 1 {
			return chartPadding + plotW/2
		}
		return chartPadding + float64(i)*plotW/float64(n-1)
	}

	series := func(r, g, b float64, value func(gpa.TrendPoint) float64) {
		dc.SetRGB(r, g, b)
		dc.SetLineWidth(2)
		for i, p := range st.Trend {
			if i == 0 {
				dc.MoveTo(x(i), y(value(p)))
			} else {
				dc.LineTo(x(i), y(value(p)))
			}
		}
		dc.Stroke()
		for i, p := range st.Trend {
			dc.DrawCircle(x(i), y(value(p)), 4)
			dc.Fill()
		}
	}
	series(0.15, 0.39, 0.92, func(p gpa.TrendPoint) float64 { return p.GPA })
	series(0.96, 0.55, 0.1, func(p gpa.TrendPoint) float64 { return p.CGPA })

	dc.SetRGB(0.3, 0.3, 0.3)
	for i, p := range st.Trend {
		dc.DrawStringAnchored(p.Label, x(i), chartHeight-chartPadding+16, 0.5, 0.5)
	}

	// legend
	dc.SetRGB(0.15, 0.39, 0.92)
	dc.DrawRectangle(chartPadding, 16, 12, 12)
	dc.Fill()
	dc.SetRGB(0.96, 0.55, 0.1)
	dc.DrawRectangle(chartPadding+70, 16, 12, 12)
	dc.Fill()
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.DrawStringAnchored("GPA", chartPadding+18, 22, 0, 0.5)
	dc.DrawStringAnchored("CGPA", chartPadding+88, 22, 0, 0.5)

	return encodePNG(dc)
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(err, "encoding chart")
	}
	return buf.Bytes(), nil
}
