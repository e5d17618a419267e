package prefs

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runmap-service/internal/platform/db"
	"runmap-service/internal/ports"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// exerciseStore checks the behavior every PreferenceStore must share.
func exerciseStore(t *testing.T, s ports.PreferenceStore) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "lastRun"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v, want ok=false err=nil", ok, err)
	}

	doc := `{"start":{"lng":1,"lat":1},"distance":0,"segments":[],"followRoads":false}`
	if err := s.Set(ctx, "lastRun", doc); err != nil {
		t.Fatalf("set: unexpected error: %v", err)
	}

	v, ok, err := s.Get(ctx, "lastRun")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if v != doc {
		t.Fatalf("get = %q, want %q", v, doc)
	}

	if err := s.Set(ctx, "lastRun", "{}"); err != nil {
		t.Fatalf("overwrite: unexpected error: %v", err)
	}
	if v, _, _ := s.Get(ctx, "lastRun"); v != "{}" {
		t.Fatalf("after overwrite get = %q, want {}", v)
	}

	if err := s.Set(ctx, "followRoads", "true"); err != nil {
		t.Fatalf("set second key: %v", err)
	}
	if v, _, _ := s.Get(ctx, "lastRun"); v != "{}" {
		t.Fatalf("keys interfere: lastRun = %q", v)
	}
}

func TestMemoryPreferenceStore(t *testing.T) {
	exerciseStore(t, NewMemoryPreferenceStore())
}

func TestSqlitePreferenceStore(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	// Idempotent.
	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema twice: %v", err)
	}

	exerciseStore(t, NewSqlitePreferenceStore(db))
}

// Runs against a real Postgres when DATABASE_URL is set.
func TestSQLPreferenceStore(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := InitSchema(conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	wipe := func() {
		if _, err := conn.Exec(`DELETE FROM preferences WHERE pref_key IN ('lastRun', 'followRoads')`); err != nil {
			t.Fatalf("clear preferences: %v", err)
		}
	}
	wipe()
	t.Cleanup(wipe)

	exerciseStore(t, NewSQLPreferenceStore(conn))
}

func TestSQLPreferenceStoreNilDB(t *testing.T) {
	s := NewSQLPreferenceStore(nil)
	if _, _, err := s.Get(context.Background(), "k"); err == nil {
		t.Fatalf("expected error for nil db")
	}
	if err := s.Set(context.Background(), "k", "v"); err == nil {
		t.Fatalf("expected error for nil db")
	}
}

func TestSqlitePreferenceStoreNilDB(t *testing.T) {
	s := NewSqlitePreferenceStore(nil)
	if err := s.Set(context.Background(), "k", "v"); err == nil {
		t.Fatalf("expected error for nil db")
	}
}

func TestRedisPreferenceStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	s := NewRedisPreferenceStore(client, "test")
	exerciseStore(t, s)

	if got := mr.HGet("test:prefs", "followRoads"); got != "true" {
		t.Fatalf("hash field = %q, want true", got)
	}
}

func TestRedisPreferenceStoreUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })

	mr.Close()

	s := NewRedisPreferenceStore(client, "")
	if _, _, err := s.Get(context.Background(), "lastRun"); err == nil {
		t.Fatalf("expected error from closed server")
	}
}
