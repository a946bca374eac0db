package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openTestSQLite(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "linlv.db")
	s, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	return s, path
}

func exerciseKV(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	if _, found, err := s.Get(ctx, "linlv_favorites"); err != nil || found {
		t.Fatalf("Get(missing) = found %v, err %v", found, err)
	}

	if err := s.Set(ctx, "linlv_favorites", `["p1"]`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, "linlv_favorites", `["p1","acad3"]`); err != nil {
		t.Fatalf("Set(overwrite) error = %v", err)
	}

	got, found, err := s.Get(ctx, "linlv_favorites")
	if err != nil || !found {
		t.Fatalf("Get() = found %v, err %v", found, err)
	}
	if got != `["p1","acad3"]` {
		t.Errorf("Get() = %q, want last write", got)
	}

	if err := s.Set(ctx, "a_first", "x"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 2 || keys[0] != "a_first" || keys[1] != "linlv_favorites" {
		t.Errorf("Keys() = %v, want [a_first linlv_favorites]", keys)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, _ := openTestSQLite(t)
	defer func() { _ = s.Close() }()

	if s.dialect != SQLite {
		t.Errorf("dialect = %q", s.dialect)
	}
	exerciseKV(t, s)
}

func TestSQLiteStoreReopen(t *testing.T) {
	s, path := openTestSQLite(t)
	ctx := context.Background()

	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	version, err := reopened.currentVersion(ctx)
	if err != nil || version != len(migrations) {
		t.Errorf("currentVersion() = %d, %v, want %d", version, err, len(migrations))
	}
	if v, found, err := reopened.Get(ctx, "k"); err != nil || !found || v != "v" {
		t.Errorf("Get() after reopen = %q, %v, %v", v, found, err)
	}
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite(context.Background(), ""); err == nil {
		t.Error("OpenSQLite(\"\") should fail")
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("LINLV_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("LINLV_TEST_DATABASE_URL not set")
	}

	s, err := OpenPostgres(context.Background(), dsn)
	if err != nil {
		t.Fatalf("OpenPostgres() error = %v", err)
	}
	defer func() { _ = s.Close() }()

	if _, err := s.db.Exec("DELETE FROM kv WHERE key IN ('linlv_favorites', 'a_first')"); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	exerciseKV(t, s)
}

func TestRebind(t *testing.T) {
	tests := []struct {
		dialect Dialect
		in      string
		want    string
	}{
		{SQLite, "SELECT ? , ?", "SELECT ? , ?"},
		{Postgres, "SELECT ? , ?", "SELECT $1 , $2"},
		{Postgres, "SELECT 1", "SELECT 1"},
	}

	for _, tt := range tests {
		s := &Store{dialect: tt.dialect}
		if got := s.rebind(tt.in); got != tt.want {
			t.Errorf("rebind(%s, %q) = %q, want %q", tt.dialect, tt.in, got, tt.want)
		}
	}
}
