package gormstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gpacalc/core/gpa"
	"github.com/trezcool/gpacalc/tests"
)

func openStore(t *testing.T, dir, namespace string) *Store {
	t.Helper()
	s, err := Open(dir, namespace, time.Second)
	if err != nil {
		// the sqlite driver needs cgo
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore(t *testing.T) {
	testutil.DurableStoreContract(t, openStore(t, t.TempDir(), "gpacalc"))
}

func TestStore_Namespaces(t *testing.T) {
	dir := t.TempDir()
	a := openStore(t, dir, "a")
	b := openStore(t, dir, "b")

	require.NoError(t, a.Set("courses", []byte("1")))
	_, err := b.Get("courses")
	assert.Equal(t, gpa.ErrKeyNotFound, err)

	require.NoError(t, b.Set("courses", []byte("2")))
	got, err := a.Get("courses")
	require.NoError(t, err)
	assert.Equal(t, "1", string(got))
}
