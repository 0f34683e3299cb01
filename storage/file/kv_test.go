package filestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gpacalc/tests"
)

func TestStore(t *testing.T) {
	testutil.DurableStoreContract(t, New(filepath.Join(t.TempDir(), "nested"), "gpacalc"))
}

func TestStore_Layout(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, "ns")
	require.NoError(t, s.Set("grades", []byte("{}")))

	b, err := os.ReadFile(filepath.Join(dir, "ns.grades.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestStore_Namespaces(t *testing.T) {
	dir := t.TempDir()
	a, b := New(dir, "a"), New(dir, "b")
	require.NoError(t, a.Set("courses", []byte("1")))

	_, err := b.Get("courses")
	assert.Error(t, err)
}

func TestStore_InvalidKeys(t *testing.T) {
	s := New(t.TempDir(), "ns")
	for _, key := range []string{"", "../etc/passwd", "a/b", "a.b"} {
		assert.Error(t, s.Set(key, []byte("x")), key)
		_, err := s.Get(key)
		assert.Error(t, err, key)
	}
}
