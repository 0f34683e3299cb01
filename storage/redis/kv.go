package redisstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/trezcool/gpacalc/core"
	"github.com/trezcool/gpacalc/core/gpa"
)

// Store is a gpa.DurableStore backed by redis string keys "<namespace>:<key>".
type Store struct {
	rdb       *goredis.Client
	namespace string
	timeout   time.Duration
}

var _ gpa.DurableStore = (*Store)(nil)

const defaultTimeout = 3 * time.Second

// Open connects to redis and pings it.
func Open(conf core.RedisConfig, namespace string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        conf.Addr,
		Password:    conf.Password,
		DB:          conf.DB,
		DialTimeout: timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "redis ping")
	}
	return &Store{rdb: rdb, namespace: namespace, timeout: timeout}, nil
}

func (s *Store) key(k string) string {
	return s.namespace + ":" + k
}

func (s *Store) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	b, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, gpa.ErrKeyNotFound
		}
		return nil, errors.Wrapf(err, "redis get %q", key)
	}
	return b, nil
}

func (s *Store) Set(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	return errors.Wrapf(s.rdb.Set(ctx, s.key(key), value, 0).Err(), "redis set %q", key)
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
