package testutil

import (
	"os"
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/gpacalc/core/gpa"
	logsvc "github.com/trezcool/gpacalc/services/logger"
	inmemdb "github.com/trezcool/gpacalc/storage/database/inmem"
)

// NewStore returns a loaded Store backed by a fresh in-memory database.
func NewStore(t *testing.T) (*gpa.Store, *inmemdb.DB, *logsvc.MemoryLogger) {
	t.Helper()
	db := inmemdb.Open()
	logger := &logsvc.MemoryLogger{}
	store := gpa.NewStore(db, logger)
	store.Load()
	return store, db, logger
}

// AddCourse adds a course to store and grades it when label is given.
func AddCourse(t *testing.T, store *gpa.Store, name string, credits int, label ...string) gpa.Course {
	t.Helper()
	c, err := store.AddCourse(name, credits)
	if err != nil {
		t.Fatalf("AddCourse() failed: %v", err)
	}
	if len(label) > 0 && label[0] != "" {
		if err = store.SetGrade(c.ID, label[0]); err != nil {
			t.Fatalf("SetGrade() failed: %v", err)
		}
	}
	return c
}

// OnlyCourses drops the default placeholder course so that tests start from an empty term.
func OnlyCourses(t *testing.T, store *gpa.Store) {
	t.Helper()
	for _, c := range store.Snapshot().Courses {
		store.RemoveCourse(c.ID)
	}
}

// RequireEnv skips the test unless the environment variable key is set, and returns its value.
func RequireEnv(t *testing.T, key string) string {
	t.Helper()
	v := os.Getenv(key)
	if v == "" {
		t.Skipf("%s not set", key)
	}
	return v
}

// DurableStoreContract checks the behaviour every gpa.DurableStore must share.
func DurableStoreContract(t *testing.T, db gpa.DurableStore) {
	t.Helper()

	_, err := db.Get("missing")
	if errors.Cause(err) != gpa.ErrKeyNotFound {
		t.Fatalf("Get(missing) error = %v, want %v", err, gpa.ErrKeyNotFound)
	}

	if err = db.Set("courses", []byte(`{"version":1,"data":[]}`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err = db.Set("courses", []byte(`{"version":1,"data":null}`)); err != nil {
		t.Fatalf("Set() overwrite failed: %v", err)
	}
	got, err := db.Get("courses")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != `{"version":1,"data":null}` {
		t.Errorf("Get() = %s, want the last written value", got)
	}

	// a whole store survives a reload through db
	store := gpa.NewStore(db, logsvc.NopLogger{})
	store.Load()
	c := AddCourse(t, store, "Operating Systems", 4, "B+")
	store.AddSemester(gpa.NewSemester{Name: "Fall", CreditHours: 16, GPA: 3.25, RepeatedCreditHours: 1})

	reloaded := gpa.NewStore(db, logsvc.NopLogger{})
	reloaded.Load()
	if !reflect.DeepEqual(store.Snapshot(), reloaded.Snapshot()) {
		t.Errorf("reloaded model = %+v, want %+v", reloaded.Snapshot(), store.Snapshot())
	}
	if reloaded.Snapshot().Grades[c.ID] != "B+" {
		t.Errorf("reloaded grade = %q, want B+", reloaded.Snapshot().Grades[c.ID])
	}
}
