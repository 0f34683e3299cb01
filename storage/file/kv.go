package filestore

import (
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/gpacalc/core/gpa"
)

var keyRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store is a gpa.DurableStore keeping one file per key in a directory.
// Writes go to a temporary file that is synced and renamed over the old one.
type Store struct {
	mu        sync.Mutex
	dir       string
	namespace string
}

var _ gpa.DurableStore = (*Store)(nil)

func New(dir, namespace string) *Store {
	return &Store{dir: dir, namespace: namespace}
}

func (s *Store) path(key string) (string, error) {
	if !keyRegex.MatchString(key) {
		return "", errors.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, s.namespace+"."+key+".json"), nil
}

func (s *Store) Get(key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, gpa.ErrKeyNotFound
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return b, nil
}

func (s *Store) Set(key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "creating storage directory")
	}
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }() // no-op after rename

	if _, err = tmp.Write(value); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "syncing %s", tmp.Name())
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", tmp.Name())
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "renaming to %s", path)
}
