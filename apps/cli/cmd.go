package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/gpacalc/core"
	"github.com/trezcool/gpacalc/core/gpa"
	"github.com/trezcool/gpacalc/core/grade"
	"github.com/trezcool/gpacalc/core/share"
	"github.com/trezcool/gpacalc/services/export"
)

var (
	// mockable
	isTerminalFunc = term.IsTerminal
	confirmFunc    = readConfirmation
	nowFunc        = time.Now
	writeFileFunc  = os.WriteFile

	errHelp    = errors.New("help provided")
	errAborted = errors.New("aborted")
)

type commandLine struct {
	store     *gpa.Store
	conf      *core.Config
	log       core.Logger
	clipboard share.ClipboardSink
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprint(cli.out, `Usage:
  show                                             - print courses, semesters and GPAs
  add-course -name NAME [-credits N]               - add a current-term course
  update-course -id REF [-name NAME] [-credits N]  - edit a course
  rm-course -id REF                                - remove a course and its grade
  grade -id REF -grade LABEL                       - grade a course
  ungrade -id REF                                  - clear a course's grade
  add-semester [-name NAME] -credits N -gpa G [-repeated N]
                                                   - add a previous semester
  update-semester -id REF [-name NAME] [-credits N] [-gpa G] [-repeated N]
                                                   - edit a previous semester
  rm-semester -id REF                              - remove a previous semester
  reset-grades                                     - clear every current-term grade
  clear [-yes]                                     - start over, there is no undo
  share                                            - print (and copy) a share link
  import LINK|PAYLOAD                              - replace everything with a shared state
  export [-pdf FILE] [-chart FILE]                 - write the PDF report and/or trend chart
  scale                                            - print the grade scale

REF is an id or a 1-based position as listed by "show".
`)
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	cmd := args[1]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	id := fs.String("id", "", "The id or 1-based position of the course/semester.")
	name := fs.String("name", "", "The name.")
	credits := fs.Int("credits", 0, "The credit hours.")
	gpaValue := fs.Float64("gpa", 0, "The semester GPA, 0.00 to 4.00.")
	repeated := fs.Int("repeated", 0, "The repeated credit hours of the semester.")
	label := fs.String("grade", "", "The grade label, e.g. A, B+.")
	yes := fs.Bool("yes", false, "Do not ask for confirmation.")
	pdfPath := fs.String("pdf", "", "Where to write the PDF report.")
	chartPath := fs.String("chart", "", "Where to write the PNG trend chart.")

	parse := func() error {
		if err := fs.Parse(args[2:]); err != nil {
			if err == flag.ErrHelp {
				return errHelp
			}
			return err
		}
		return nil
	}
	isSet := func() map[string]bool {
		set := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		return set
	}

	switch cmd {
	case "show":
		if err := parse(); err != nil {
			return err
		}
		cli.show()
		return nil

	case "scale":
		if err := parse(); err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "GRADE\tQUALITY POINTS")
		for _, g := range grade.All() {
			_, _ = fmt.Fprintf(tw, "%s\t%.2f\n", g.Label, g.QualityPoint)
		}
		return tw.Flush()

	case "add-course":
		if err := parse(); err != nil {
			return err
		}
		cr := gpa.DefaultCourseCredits
		if isSet()["credits"] {
			cr = *credits
		}
		c, err := cli.store.AddCourse(*name, cr)
		if err != nil {
			fs.Usage()
			return err
		}
		_, _ = fmt.Fprintf(cli.out, "added course %q (%d cr) [%s]\n", c.Name, c.CreditHours, c.ID)
		return nil

	case "update-course":
		if err := parse(); err != nil {
			return err
		}
		set := isSet()
		if *id == "" || !(set["name"] || set["credits"]) {
			fs.Usage()
			return errHelp
		}
		var uc gpa.UpdateCourse
		if set["name"] {
			uc.Name = name
		}
		if set["credits"] {
			uc.CreditHours = credits
		}
		c, err := cli.store.UpdateCourse(cli.courseID(*id), uc)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cli.out, "updated course %q (%d cr)\n", c.Name, c.CreditHours)
		return nil

	case "rm-course":
		if err := parse(); err != nil {
			return err
		}
		if *id == "" {
			fs.Usage()
			return errHelp
		}
		cli.store.RemoveCourse(cli.courseID(*id))
		return nil

	case "grade":
		if err := parse(); err != nil {
			return err
		}
		if *id == "" || *label == "" {
			fs.Usage()
			return errHelp
		}
		if err := cli.store.SetGrade(cli.courseID(*id), grade.Normalize(*label)); err != nil {
			if core.IsValidationError(err) {
				return unknownGrade(*label)
			}
			return err
		}
		cli.printGPAs()
		return nil

	case "ungrade":
		if err := parse(); err != nil {
			return err
		}
		if *id == "" {
			fs.Usage()
			return errHelp
		}
		if err := cli.store.ClearGrade(cli.courseID(*id)); err != nil {
			return err
		}
		cli.printGPAs()
		return nil

	case "add-semester":
		if err := parse(); err != nil {
			return err
		}
		sem := cli.store.AddSemester(gpa.NewSemester{
			Name:                *name,
			CreditHours:         *credits,
			GPA:                 *gpaValue,
			RepeatedCreditHours: *repeated,
		})
		_, _ = fmt.Fprintf(cli.out, "added semester %q (%d cr, GPA %.2f) [%s]\n", sem.Name, sem.CreditHours, sem.GPA, sem.ID)
		return nil

	case "update-semester":
		if err := parse(); err != nil {
			return err
		}
		set := isSet()
		if *id == "" || !(set["name"] || set["credits"] || set["gpa"] || set["repeated"]) {
			fs.Usage()
			return errHelp
		}
		var us gpa.UpdateSemester
		if set["name"] {
			us.Name = name
		}
		if set["credits"] {
			us.CreditHours = credits
		}
		if set["gpa"] {
			us.GPA = gpaValue
		}
		if set["repeated"] {
			us.RepeatedCreditHours = repeated
		}
		sem, err := cli.store.UpdateSemester(cli.semesterID(*id), us)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cli.out, "updated semester %q (%d cr, GPA %.2f)\n", sem.Name, sem.CreditHours, sem.GPA)
		return nil

	case "rm-semester":
		if err := parse(); err != nil {
			return err
		}
		if *id == "" {
			fs.Usage()
			return errHelp
		}
		cli.store.RemoveSemester(cli.semesterID(*id))
		return nil

	case "reset-grades":
		if err := parse(); err != nil {
			return err
		}
		cli.store.ResetCurrentTermGrades()
		return nil

	case "clear":
		if err := parse(); err != nil {
			return err
		}
		if !*yes {
			if !isTerminalFunc(int(os.Stdin.Fd())) {
				_, _ = fmt.Fprintln(cli.out, "refusing to clear without a terminal, pass -yes")
				return errAborted
			}
			_, _ = fmt.Fprint(cli.out, "This deletes every course, grade and semester. Continue? [y/N] ")
			ok, err := confirmFunc()
			if err != nil {
				return err
			}
			if !ok {
				return errAborted
			}
		}
		cli.store.ClearAll()
		return nil

	case "share":
		if err := parse(); err != nil {
			return err
		}
		link, err := share.CopyLink(context.Background(), cli.store, cli.conf.Share.BaseURL, cli.conf.Share.Param, cli.clipboard)
		if link == "" {
			return err
		}
		if err != nil {
			cli.log.Warn("copying share link", "error", err)
			_, _ = fmt.Fprintln(cli.out, link)
		}
		return nil

	case "import":
		if err := parse(); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			fs.Usage()
			return errHelp
		}
		return cli.importLink(fs.Arg(0))

	case "export":
		if err := parse(); err != nil {
			return err
		}
		if *pdfPath == "" && *chartPath == "" {
			fs.Usage()
			return errHelp
		}
		return cli.export(*pdfPath, *chartPath)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) show() {
	m := cli.store.Snapshot()
	st := cli.store.Stats()
	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)

	_, _ = fmt.Fprintln(tw, "#\tCOURSE\tCREDITS\tGRADE\tID")
	for i, c := range st.Courses {
		g := gpa.Placeholder
		if c.Graded {
			g = c.Grade
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", i+1, c.Name, c.CreditHours, g, c.ID)
	}
	if len(m.Semesters) > 0 {
		_, _ = fmt.Fprintln(tw, "\t\t\t\t")
		_, _ = fmt.Fprintln(tw, "#\tSEMESTER\tCREDITS\tGPA\tID")
		for i, s := range st.Semesters {
			cr := strconv.Itoa(s.CreditHours)
			if s.RepeatedCreditHours > 0 {
				cr += " (" + strconv.Itoa(s.RepeatedCreditHours) + " repeated)"
			}
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%s\n", i+1, s.Name, cr, s.GPA, s.ID)
		}
	}
	_ = tw.Flush()

	_, _ = fmt.Fprintf(cli.out, "\nTotal credit hours: %d\n", st.TotalCredits)
	cli.printGPAs()
}

func (cli *commandLine) printGPAs() {
	st := cli.store.Stats()
	_, _ = fmt.Fprintf(cli.out, "Semester GPA: %s\nCGPA: %s\n",
		gpa.FormatGPA(st.SemesterGPA, st.HasSemesterGPA), gpa.FormatGPA(st.CGPA, st.HasCGPA))
}

// courseID resolves a 1-based position to the course id; anything else is taken as an id.
func (cli *commandLine) courseID(ref string) string {
	courses := cli.store.Snapshot().Courses
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(courses) {
		return courses[n-1].ID
	}
	return ref
}

func (cli *commandLine) semesterID(ref string) string {
	semesters := cli.store.Snapshot().Semesters
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(semesters) {
		return semesters[n-1].ID
	}
	return ref
}

// importLink accepts a full share link or the bare payload.
func (cli *commandLine) importLink(arg string) error {
	if u, err := url.Parse(arg); err == nil && u.Query().Get(cli.conf.Share.Param) != "" {
		_, err = share.Import(cli.store, &share.URLSource{URL: u, Param: cli.conf.Share.Param}, cli.log)
		return err
	}
	m, err := share.Decode(arg)
	if err != nil {
		return err
	}
	cli.store.Replace(m)
	_, _ = fmt.Fprintf(cli.out, "imported %d courses and %d semesters\n", len(m.Courses), len(m.Semesters))
	return nil
}

func (cli *commandLine) export(pdfPath, chartPath string) error {
	res, err := export.Render(context.Background(), cli.conf.Export, cli.store.Stats(), nowFunc())
	if err != nil {
		return pkgerrors.Wrap(err, "rendering export")
	}
	if pdfPath != "" {
		if err = writeFileFunc(pdfPath, res.PDF, 0o644); err != nil {
			return pkgerrors.Wrap(err, "writing pdf")
		}
		_, _ = fmt.Fprintln(cli.out, "wrote", pdfPath)
	}
	if chartPath != "" {
		if err = writeFileFunc(chartPath, res.Chart, 0o644); err != nil {
			return pkgerrors.Wrap(err, "writing chart")
		}
		_, _ = fmt.Fprintln(cli.out, "wrote", chartPath)
	}
	return nil
}

func unknownGrade(label string) error {
	msg := fmt.Sprintf("unknown grade %q", label)
	if suggestions := grade.Suggest(label); len(suggestions) > 0 {
		msg += ", did you mean " + strings.Join(suggestions, " or ") + "?"
	}
	return errors.New(msg)
}

func readConfirmation() (bool, error) {
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
