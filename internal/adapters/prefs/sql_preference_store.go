package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"runmap-service/internal/platform/obs"
	"runmap-service/internal/ports"
	"strings"
)

// SQLPreferenceStore is a Postgres-backed PreferenceStore.
type SQLPreferenceStore struct {
	DB *sql.DB
}

var _ ports.PreferenceStore = (*SQLPreferenceStore)(nil)

func NewSQLPreferenceStore(db *sql.DB) *SQLPreferenceStore {
	return &SQLPreferenceStore{DB: db}
}

func (s *SQLPreferenceStore) Get(ctx context.Context, key string) (_ string, _ bool, err error) {
	defer obs.Time(ctx, "prefs.sql.Get")(&err)

	if s.DB == nil {
		return "", false, errors.New("preference store: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return "", false, errors.New("get preference: key must not be empty")
	}

	var v string
	err = s.DB.QueryRowContext(ctx, `
	SELECT pref_value
	FROM preferences
	WHERE pref_key = $1;
	`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %q: %w", key, err)
	}

	return v, true, nil
}

func (s *SQLPreferenceStore) Set(ctx context.Context, key string, value string) (err error) {
	defer obs.Time(ctx, "prefs.sql.Set")(&err)

	if s.DB == nil {
		return errors.New("preference store: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("set preference: key must not be empty")
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT INTO preferences (pref_key, pref_value)
	VALUES ($1, $2)
	ON CONFLICT (pref_key) DO UPDATE
	SET pref_value = EXCLUDED.pref_value;
	`, key, value); err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}

	return nil
}
