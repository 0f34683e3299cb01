package echoapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/gpacalc/core"
	"github.com/trezcool/gpacalc/core/gpa"
	"github.com/trezcool/gpacalc/core/share"
)

type (
	Options struct {
		Address        string
		Debug          bool
		TestMode       bool
		DisableReqLogs bool

		Store     *gpa.Store
		Logger    core.Logger
		Share     core.ShareConfig
		Export    core.ExportConfig
		Clipboard share.ClipboardSink // optional
		Now       func() time.Time    // mockable
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo

		// mu serializes every request touching the store: one session, one owner
		mu sync.Mutex
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.opts.Debug || s.opts.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger)
	s.app.Debug = s.opts.Debug

	s.app.GET("/", s.home, s.sessionMiddleware)

	g := s.app.Group("/api", s.sessionMiddleware)
	g.GET("/state", s.state)
	g.GET("/scale", s.scale)

	g.POST("/courses", s.addCourse)
	g.PATCH("/courses/:id", s.updateCourse)
	g.DELETE("/courses/:id", s.removeCourse)
	g.PUT("/courses/:id/grade", s.setGrade)
	g.DELETE("/courses/:id/grade", s.clearGrade)

	g.POST("/semesters", s.addSemester)
	g.PATCH("/semesters/:id", s.updateSemester)
	g.DELETE("/semesters/:id", s.removeSemester)

	g.POST("/reset-grades", s.resetGrades)
	g.POST("/clear", s.clearAll)

	g.GET("/share", s.shareLink)
	g.POST("/import", s.importLink)
	g.GET("/export.pdf", s.exportPDF)
	g.GET("/chart.png", s.exportChart)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
