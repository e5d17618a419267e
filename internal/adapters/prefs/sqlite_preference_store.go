package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"runmap-service/internal/ports"
	"strings"
)

// SQLite-backed PreferenceStore for single-machine runs.
type SqlitePreferenceStore struct {
	DB *sql.DB
}

var _ ports.PreferenceStore = (*SqlitePreferenceStore)(nil)

func NewSqlitePreferenceStore(db *sql.DB) *SqlitePreferenceStore {
	return &SqlitePreferenceStore{DB: db}
}

func (s *SqlitePreferenceStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.DB == nil {
		return "", false, errors.New("preference store: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return "", false, errors.New("get preference: key must not be empty")
	}

	var v string
	err := s.DB.QueryRowContext(ctx, `
	SELECT
		pref_value
	FROM preferences
	WHERE pref_key = ?;
	`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %q: query preferences table: %w", key, err)
	}

	return v, true, nil
}

func (s *SqlitePreferenceStore) Set(ctx context.Context, key string, value string) error {
	if s.DB == nil {
		return errors.New("preference store: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("set preference: key must not be empty")
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO preferences (
		pref_key,
		pref_value
	)
	VALUES (?, ?);
	`, key, value); err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}

	return nil
}
