package share

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/trezcool/gpacalc/core"
	"github.com/trezcool/gpacalc/core/gpa"
)

type (
	// ShareLinkSource is where an incoming share parameter is read from, once.
	ShareLinkSource interface {
		Read() (string, bool)
		// Clear removes the parameter so that it is never consumed twice.
		Clear()
	}

	// ClipboardSink receives outgoing share links.
	ClipboardSink interface {
		Write(ctx context.Context, text string) error
	}
)

// Import consumes the share parameter of src, if any. On success the store's
// model is replaced (and persisted); on failure the store is left untouched and
// an error whose cause is ErrInvalidLink is returned. The parameter is cleared
// in both cases. ok reports whether a parameter was present.
func Import(store *gpa.Store, src ShareLinkSource, log core.Logger) (ok bool, err error) {
	data, ok := src.Read()
	if !ok {
		return false, nil
	}
	defer src.Clear()

	m, err := Decode(data)
	if err != nil {
		log.Warn("rejecting share link", "error", err)
		return true, err
	}
	store.Replace(m)
	log.Info("imported share link", "courses", len(m.Courses), "semesters", len(m.Semesters))
	return true, nil
}

// CopyLink writes the share link of the store's current model to sink.
// A failing sink never affects the store.
func CopyLink(ctx context.Context, store *gpa.Store, baseURL, param string, sink ClipboardSink) (string, error) {
	link, err := Link(baseURL, param, store.Snapshot())
	if err != nil {
		return "", err
	}
	if err = sink.Write(ctx, link); err != nil {
		return link, errors.Wrap(err, "writing share link to clipboard")
	}
	return link, nil
}

// URLSource reads the share parameter from the query string of a URL.
type URLSource struct {
	URL   *url.URL
	Param string
}

func (src *URLSource) Read() (string, bool) {
	v := src.URL.Query().Get(src.Param)
	return v, v != ""
}

func (src *URLSource) Clear() {
	q := src.URL.Query()
	q.Del(src.Param)
	src.URL.RawQuery = q.Encode()
}
