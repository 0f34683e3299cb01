package echoapi

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gpacalc/core/share"
	"github.com/trezcool/gpacalc/services/export"
)

// Import header values reported by home
const (
	importHeader   = "X-Share-Import"
	importOK       = "imported"
	importRejected = "rejected"
)

// home consumes an incoming share parameter once, then redirects to the same
// URL without it so that reloading never imports twice.
func (s *server) home(ctx echo.Context) error {
	u := *ctx.Request().URL
	src := &share.URLSource{URL: &u, Param: s.opts.Share.Param}
	present, err := share.Import(s.opts.Store, src, s.opts.Logger)
	if !present {
		return ctx.String(http.StatusOK, "Welcome to the GPA Calculator API!")
	}

	status := importOK
	if err != nil {
		status = importRejected
	}
	ctx.Response().Header().Set(importHeader, status)
	return ctx.Redirect(http.StatusSeeOther, (&url.URL{Path: u.Path, RawQuery: u.RawQuery}).String())
}

func (s *server) shareLink(ctx echo.Context) error {
	var res shareResponse
	if s.opts.Clipboard == nil {
		link, err := share.Link(s.opts.Share.BaseURL, s.opts.Share.Param, s.opts.Store.Snapshot())
		if err != nil {
			return errors.Wrap(err, "building share link")
		}
		res.Link = link
		return ctx.JSON(http.StatusOK, res)
	}

	link, err := share.CopyLink(ctx.Request().Context(), s.opts.Store, s.opts.Share.BaseURL, s.opts.Share.Param, s.opts.Clipboard)
	if link == "" {
		return errors.Wrap(err, "building share link")
	}
	if err != nil {
		s.opts.Logger.Warn("copying share link", "error", err)
	}
	res.Link, res.Copied = link, err == nil
	return ctx.JSON(http.StatusOK, res)
}

func (s *server) importLink(ctx echo.Context) error {
	var data importRequest
	if err := bind(ctx, &data, "importRequest"); err != nil {
		return err
	}
	m, err := share.Decode(data.Data)
	if err != nil {
		return err
	}
	s.opts.Store.Replace(m)
	return ctx.JSON(http.StatusOK, s.stateResponse())
}

func (s *server) exportPDF(ctx echo.Context) error {
	doc := export.Report(s.opts.Export.Title, s.opts.Store.Stats(), s.opts.Now())
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="gpa-report.pdf"`)
	return ctx.Blob(http.StatusOK, "application/pdf", doc)
}

func (s *server) exportChart(ctx echo.Context) error {
	face, err := export.LoadFace(s.opts.Export.FontPath, 12)
	if err != nil {
		return errors.Wrap(err, "loading chart font")
	}
	img, err := export.Chart(s.opts.Store.Stats(), face)
	if err != nil {
		return err
	}
	return ctx.Blob(http.StatusOK, "image/png", img)
}
