package db

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestOpen_AppliesMigrationsAndRollsBack(t *testing.T) {
	d, err := Open("file:dbtest_migrations?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	got, err := AppliedVersions(d)
	if err != nil {
		t.Fatalf("applied versions: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("applied = %v, want [1 2]", got)
	}

	if err := RollbackLast(d); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	got, _ = AppliedVersions(d)
	if !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("after rollback = %v, want [1]", got)
	}
	var n int
	if err := d.Get(&n, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='books'`); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if n != 0 {
		t.Fatalf("books table still present after rollback")
	}

	if err := Migrate(d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	got, _ = AppliedVersions(d)
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("after re-migrate = %v, want [1 2]", got)
	}
}

func TestOpen_ForeignKeysEnforced(t *testing.T) {
	d, err := Open("file:dbtest_fk?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	_, err = d.Exec(`INSERT INTO todos (title, description, priority, complete, owner_id) VALUES ('t', 'd', 1, 0, 999)`)
	if err == nil {
		t.Fatalf("expected foreign key violation for unknown owner")
	}
}

func TestOpen_FileLockIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locked.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("open first: %v", err)
	}
	if _, err := Open(path); !errors.Is(err, ErrLocked) {
		t.Fatalf("second open err = %v, want ErrLocked", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	again, err := Open(path)
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	_ = again.Close()
}

func TestLockPath(t *testing.T) {
	cases := map[string]string{
		"app.db":                          "app.db.lock",
		"file:data/app.db?cache=shared":   "data/app.db.lock",
		":memory:":                        "",
		"file:x?mode=memory&cache=shared": "",
	}
	for in, want := range cases {
		if got := lockPath(in); got != want {
			t.Errorf("lockPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOpenNoMigrate_LeavesSchemaVersionAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := RollbackLast(d); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	_ = d.Close()

	d, err = OpenNoMigrate(path)
	if err != nil {
		t.Fatalf("open without migrations: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	got, err := AppliedVersions(d)
	if err != nil {
		t.Fatalf("applied versions: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("applied = %v, want [1]", got)
	}
}
