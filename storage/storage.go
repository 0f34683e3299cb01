package storage

import (
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/gpacalc/core"
	"github.com/trezcool/gpacalc/core/gpa"
	"github.com/trezcool/gpacalc/storage/database"
	gormstore "github.com/trezcool/gpacalc/storage/database/gormdb"
	inmemdb "github.com/trezcool/gpacalc/storage/database/inmem"
	sqlxstore "github.com/trezcool/gpacalc/storage/database/sqlx"
	filestore "github.com/trezcool/gpacalc/storage/file"
	redisstore "github.com/trezcool/gpacalc/storage/redis"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns the durable store selected by conf.Driver and a Closer releasing it.
func Open(conf core.StorageConfig) (gpa.DurableStore, io.Closer, error) {
	switch conf.Driver {
	case core.StorageMemory:
		return inmemdb.Open(), nopCloser{}, nil
	case core.StorageFile, "":
		return filestore.New(conf.Path, conf.Namespace), nopCloser{}, nil
	case core.StorageSQLite:
		s, err := gormstore.Open(conf.Path, conf.Namespace, conf.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case core.StoragePostgres:
		db, err := database.Open(conf.Database)
		if err != nil {
			return nil, nil, err
		}
		return sqlxstore.New(db, conf.Namespace, conf.Timeout), db, nil
	case core.StorageRedis:
		s, err := redisstore.Open(conf.Redis, conf.Namespace, conf.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, errors.Errorf("unknown storage driver %q", conf.Driver)
	}
}
