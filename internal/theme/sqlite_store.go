package theme

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

const preferenceKey = "theme"

// SQLiteStore keeps the preference in a key/value table of an already open
// SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS preferences (
		pref_key TEXT PRIMARY KEY,
		pref_value TEXT NOT NULL,
		updated_at_unix INTEGER NOT NULL
	);`)
	if err != nil {
		return nil, errors.Wrap(err, "create preferences table")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (Theme, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT pref_value FROM preferences WHERE pref_key = ?`, preferenceKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, errors.Wrap(err, "load theme")
	}

	t, err := Parse(raw)
	if err != nil {
		// A corrupted row behaves like no saved preference.
		return "", false, nil
	}
	return t, true, nil
}

func (s *SQLiteStore) Save(ctx context.Context, t Theme) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO preferences (pref_key, pref_value, updated_at_unix) VALUES (?, ?, ?)
		 ON CONFLICT(pref_key) DO UPDATE SET
			pref_value = excluded.pref_value,
			updated_at_unix = excluded.updated_at_unix`,
		preferenceKey,
		string(t),
		time.Now().UTC().UnixNano(),
	)
	return errors.Wrap(err, "save theme")
}
