package share

import (
	"context"
	"net/url"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gpacalc/tests"
)

type recordingSource struct {
	data    string
	present bool
	cleared int
}

func (src *recordingSource) Read() (string, bool) { return src.data, src.present }
func (src *recordingSource) Clear() {
	src.cleared++
	src.data, src.present = "", false
}

type sinkFunc func(ctx context.Context, text string) error

func (f sinkFunc) Write(ctx context.Context, text string) error { return f(ctx, text) }

func TestImport(t *testing.T) {
	t.Run("no parameter", func(t *testing.T) {
		store, _, logger := testutil.NewStore(t)
		rev := store.Revision()
		src := &recordingSource{}

		ok, err := Import(store, src, logger)
		assert.False(t, ok)
		assert.NoError(t, err)
		assert.Equal(t, rev, store.Revision())
		assert.Zero(t, src.cleared)
	})

	t.Run("valid link replaces the model once", func(t *testing.T) {
		store, db, logger := testutil.NewStore(t)
		data, err := Encode(sampleModel())
		require.NoError(t, err)
		src := &recordingSource{data: data, present: true}

		ok, err := Import(store, src, logger)
		assert.True(t, ok)
		require.NoError(t, err)
		assertEquivalent(t, sampleModel(), store.Snapshot())
		assert.Equal(t, 1, src.cleared)
		assert.Len(t, db.Keys(), 3)

		rev := store.Revision()
		ok, err = Import(store, src, logger)
		assert.False(t, ok)
		assert.NoError(t, err)
		assert.Equal(t, rev, store.Revision())
	})

	t.Run("invalid link leaves the model untouched", func(t *testing.T) {
		store, _, logger := testutil.NewStore(t)
		testutil.AddCourse(t, store, "Kept", 3, "A")
		before, rev := store.Snapshot(), store.Revision()
		src := &recordingSource{data: encodeJSON(`{"s":[{"n":"S","cr":15,"g":7}]}`), present: true}

		ok, err := Import(store, src, logger)
		assert.True(t, ok)
		assert.Equal(t, ErrInvalidLink, errors.Cause(err))
		assert.Equal(t, before, store.Snapshot())
		assert.Equal(t, rev, store.Revision())
		assert.Equal(t, 1, src.cleared)
		assert.Equal(t, 1, logger.Count("warn"))
	})
}

func TestURLSource(t *testing.T) {
	u, err := url.Parse("http://localhost:8000/?data=abc&tab=1")
	require.NoError(t, err)
	src := &URLSource{URL: u, Param: "data"}

	v, ok := src.Read()
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	src.Clear()
	_, ok = src.Read()
	assert.False(t, ok)
	assert.Equal(t, "tab=1", u.RawQuery)
}

func TestCopyLink(t *testing.T) {
	store, _, _ := testutil.NewStore(t)
	testutil.AddCourse(t, store, "Networks", 3, "B")

	var copied string
	link, err := CopyLink(context.Background(), store, "http://localhost:8000/", "data", sinkFunc(func(_ context.Context, text string) error {
		copied = text
		return nil
	}))
	require.NoError(t, err)
	assert.Equal(t, link, copied)

	u, err := url.Parse(link)
	require.NoError(t, err)
	m, err := Decode(u.Query().Get("data"))
	require.NoError(t, err)
	assertEquivalent(t, store.Snapshot(), m)

	t.Run("failing sink", func(t *testing.T) {
		rev := store.Revision()
		link, err := CopyLink(context.Background(), store, "http://localhost:8000/", "data", sinkFunc(func(context.Context, string) error {
			return errors.New("clipboard denied")
		}))
		assert.Error(t, err)
		assert.NotEmpty(t, link)
		assert.Equal(t, rev, store.Revision())
	})
}
