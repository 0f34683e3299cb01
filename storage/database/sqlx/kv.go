package sqlxstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/gpacalc/core/gpa"
)

type entry struct {
	Namespace string    `db:"namespace"`
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Store is a gpa.DurableStore backed by the postgres kv_entry table.
type Store struct {
	db        *sqlx.DB
	namespace string
	timeout   time.Duration
}

var _ gpa.DurableStore = (*Store)(nil)

const defaultTimeout = 3 * time.Second

func New(db *sqlx.DB, namespace string, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Store{db: db, namespace: namespace, timeout: timeout}
}

func (s *Store) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var e entry
	err := s.db.GetContext(ctx, &e,
		`SELECT namespace, key, value, updated_at FROM kv_entry WHERE namespace = $1 AND key = $2`,
		s.namespace, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, gpa.ErrKeyNotFound
		}
		return nil, errors.Wrapf(err, "selecting %q", key)
	}
	return []byte(e.Value), nil
}

func (s *Store) Set(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	e := entry{Namespace: s.namespace, Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO kv_entry (namespace, key, value, updated_at)
		VALUES (:namespace, :key, :value, :updated_at)
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		e)
	return errors.Wrapf(err, "upserting %q", key)
}
