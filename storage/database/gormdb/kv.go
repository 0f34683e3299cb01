package gormstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/trezcool/gpacalc/core/gpa"
)

// DBFile is the sqlite file created inside the storage directory.
const DBFile = "gpacalc.db"

type kvEntry struct {
	Namespace string    `gorm:"primaryKey;size:64"`
	Key       string    `gorm:"primaryKey;size:64"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (kvEntry) TableName() string { return "kv_entry" }

// Store is a gpa.DurableStore backed by a sqlite database through gorm.
type Store struct {
	db        *gorm.DB
	namespace string
	timeout   time.Duration
}

var _ gpa.DurableStore = (*Store)(nil)

const defaultTimeout = 3 * time.Second

// Open opens (or creates) the sqlite database in dir.
func Open(dir, namespace string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, pkgerrors.Wrap(err, "creating storage directory")
	}
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, DBFile)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "opening sqlite database")
	}
	if err = db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, pkgerrors.Wrap(err, "migrating kv table")
	}
	return &Store{db: db, namespace: namespace, timeout: timeout}, nil
}

func (s *Store) Get(key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var e kvEntry
	err := s.db.WithContext(ctx).Where("namespace = ? AND key = ?", s.namespace, key).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gpa.ErrKeyNotFound
		}
		return nil, pkgerrors.Wrapf(err, "selecting %q", key)
	}
	return []byte(e.Value), nil
}

func (s *Store) Set(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	e := kvEntry{Namespace: s.namespace, Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	return pkgerrors.Wrapf(err, "upserting %q", key)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
