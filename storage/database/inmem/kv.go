package inmemdb

import (
	"sync"

	"github.com/trezcool/gpacalc/core/gpa"
)

// DB is an in-memory gpa.DurableStore. Values are copied in and out.
type DB struct {
	mutex sync.RWMutex
	table map[string][]byte
}

var _ gpa.DurableStore = (*DB)(nil)

func Open() *DB {
	return &DB{table: make(map[string][]byte)}
}

func (db *DB) Get(key string) ([]byte, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	v, ok := db.table[key]
	if !ok {
		return nil, gpa.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (db *DB) Set(key string, value []byte) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.table[key] = append([]byte(nil), value...)
	return nil
}

// Keys returns the stored keys, for tests.
func (db *DB) Keys() []string {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	keys := make([]string, 0, len(db.table))
	for k := range db.table {
		keys = append(keys, k)
	}
	return keys
}
