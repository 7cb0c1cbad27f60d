package catalog

import (
	"context"
)

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	// Seed rewrites both tables in one transaction, so no FK constraints.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tests (
			test_id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			duration TEXT NOT NULL,
			question_count INTEGER NOT NULL,
			category TEXT NOT NULL,
			seeded_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS questions (
			test_id TEXT NOT NULL,
			question_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			kind TEXT NOT NULL,
			prompt TEXT NOT NULL,
			options_json TEXT NOT NULL,
			items_json TEXT NOT NULL,
			correct_json TEXT NOT NULL,
			explanation TEXT NOT NULL,
			PRIMARY KEY (test_id, question_id),
			UNIQUE (test_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tests_position ON tests(position);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
