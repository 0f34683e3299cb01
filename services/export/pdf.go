package export

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/trezcool/gpacalc/core"
	"github.com/trezcool/gpacalc/core/gpa"
)

// US Letter, in points
const (
	pageWidth  = 612.0
	pageHeight = 792.0
	margin     = 50.0
	leading    = 16.0
)

// Report renders st as a printable PDF document: a header, the totals,
// then one row per current course and per previous semester.
func Report(title string, st gpa.Stats, generatedAt time.Time) []byte {
	w := newPDFWriter()

	w.row(18, true, cell{margin, title})
	w.row(10, false, cell{margin, "Generated " + generatedAt.Format("2006-01-02 15:04")})
	w.gap()

	w.row(12, false, cell{margin, "Total credit hours: " + strconv.Itoa(st.TotalCredits)})
	w.row(12, false, cell{margin, "Semester GPA: " + gpa.FormatGPA(st.SemesterGPA, st.HasSemesterGPA)})
	w.row(12, true, cell{margin, "CGPA: " + gpa.FormatGPA(st.CGPA, st.HasCGPA)})
	w.gap()

	w.row(14, true, cell{margin, "Current courses"})
	w.row(10, true, cell{margin, "Course"}, cell{340, "Credits"}, cell{410, "Grade"}, cell{470, "Quality points"})
	for _, c := range st.Courses {
		label, points := gpa.Placeholder, gpa.Placeholder
		if c.Graded {
			label, points = c.Grade, strconv.FormatFloat(c.QualityPoints, 'f', 2, 64)
		}
		w.row(10, false, cell{margin, c.Name}, cell{340, strconv.Itoa(c.CreditHours)}, cell{410, label}, cell{470, points})
	}

	if len(st.Semesters) > 0 {
		w.gap()
		w.row(14, true, cell{margin, "Previous semesters"})
		w.row(10, true, cell{margin, "Semester"}, cell{300, "Credits"}, cell{360, "Repeated"}, cell{430, "GPA"}, cell{490, "Counted"})
		for _, s := range st.Semesters {
			counted := "no"
			if s.Included {
				counted = "yes"
			}
			w.row(10, false,
				cell{margin, s.Name},
				cell{300, strconv.Itoa(s.CreditHours)},
				cell{360, strconv.Itoa(s.RepeatedCreditHours)},
				cell{430, gpa.FormatGPA(s.GPA, true)},
				cell{490, counted},
			)
		}
	}
	return w.build(title)
}

type cell struct {
	x    float64
	text string
}

// pdfWriter lays out rows of text top to bottom, starting a new page when one is full.
type pdfWriter struct {
	pages []*bytes.Buffer
	y     float64
}

func newPDFWriter() *pdfWriter {
	w := &pdfWriter{}
	w.newPage()
	return w
}

func (w *pdfWriter) newPage() {
	w.pages = append(w.pages, &bytes.Buffer{})
	w.y = pageHeight - margin
}

func (w *pdfWriter) gap() {
	w.y -= leading / 2
}

func (w *pdfWriter) row(size float64, bold bool, cells ...cell) {
	if w.y-size < margin {
		w.newPage()
	}
	w.y -= size
	font := "F1"
	if bold {
		font = "F2"
	}
	buf := w.pages[len(w.pages)-1]
	for _, c := range cells {
		fmt.Fprintf(buf, "BT /%s %.0f Tf %.2f %.2f Td (", font, size, c.x, w.y)
		buf.Write(pdfText(c.text))
		buf.WriteString(") Tj ET\n")
	}
	w.y -= leading - size/2
}

// pdfText sanitizes s and encodes it for the WinAnsi standard fonts.
// Runes outside that encoding become '?'.
func pdfText(s string) []byte {
	s = core.SanitizeForPDF(s)
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		out = append(out, b)
	}
	return out
}

func (w *pdfWriter) build(title string) []byte {
	// 1 catalog, 2 page tree, 3-4 fonts, 5 info, then a page and its content per page
	const firstPage = 6
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled in below
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /Encoding /WinAnsiEncoding >>",
		"<< /Title (" + string(pdfText(title)) + ") /Producer (gpacalc) >>",
	}

	var kids bytes.Buffer
	for i, content := range w.pages {
		pageObj := firstPage + 2*i
		fmt.Fprintf(&kids, "%d 0 R ", pageObj)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.0f %.0f] "+
				"/Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> /Contents %d 0 R >>",
				pageWidth, pageHeight, pageObj+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", bytes.TrimSpace(kids.Bytes()), len(w.pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R /Info 5 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefPos)
	return buf.Bytes()
}
