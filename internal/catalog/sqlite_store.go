package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"studyhub/internal/quiz"
)

// Driver names a registered database/sql SQLite driver.
type Driver string

const (
	// DriverSQLite3 is github.com/mattn/go-sqlite3 and needs cgo.
	DriverSQLite3 Driver = "sqlite3"
	// DriverSQLite is modernc.org/sqlite, a pure Go build.
	DriverSQLite Driver = "sqlite"
)

// SQLiteStore serves the catalog from a SQLite database filled by Seed.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(driver Driver, path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		path = "studyhub.db"
	}
	switch driver {
	case "":
		driver = DriverSQLite3
	case DriverSQLite3, DriverSQLite:
	default:
		return nil, errors.Errorf("unsupported sqlite driver %q", driver)
	}

	db, err := sql.Open(string(driver), path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "set busy timeout")
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init schema")
	}

	return store, nil
}

// DB exposes the connection so other tables (preferences) can share it.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Seed replaces the stored catalog with the contents of src.
func (s *SQLiteStore) Seed(ctx context.Context, src quiz.Catalog) error {
	tests, err := src.ListTests(ctx)
	if err != nil {
		return errors.Wrap(err, "list source tests")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tests`); err != nil {
		return err
	}

	seededAt := time.Now().UTC().UnixNano()
	for pos, test := range tests {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO tests (test_id, position, title, description, difficulty, duration, question_count, category, seeded_at_unix)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			test.ID,
			pos,
			test.Title,
			test.Description,
			test.Difficulty,
			test.Duration,
			test.QuestionCount,
			test.Category,
			seededAt,
		)
		if err != nil {
			return errors.Wrapf(err, "insert test %s", test.ID)
		}

		questions, err := src.Questions(ctx, test.ID)
		if err != nil {
			return errors.Wrapf(err, "load questions for %s", test.ID)
		}
		for qpos, question := range questions {
			if err := insertQuestion(ctx, tx, test.ID, qpos, question); err != nil {
				return errors.Wrapf(err, "insert question %s/%s", test.ID, question.ID)
			}
		}
	}

	return tx.Commit()
}

func insertQuestion(ctx context.Context, tx *sql.Tx, testID string, position int, question quiz.Question) error {
	optionsJSON, err := json.Marshal(question.Options)
	if err != nil {
		return err
	}
	itemsJSON, err := json.Marshal(question.Items)
	if err != nil {
		return err
	}
	correct, err := quiz.EncodeAnswer(question.Correct)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO questions (test_id, question_id, position, kind, prompt, options_json, items_json, correct_json, explanation)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		testID,
		question.ID,
		position,
		string(question.Kind),
		question.Prompt,
		string(optionsJSON),
		string(itemsJSON),
		string(correct.Value),
		question.Explanation,
	)
	return err
}

func (s *SQLiteStore) ListTests(ctx context.Context) ([]quiz.TestInfo, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT t.test_id, t.title, t.description, t.difficulty, t.duration, t.question_count, t.category,
			(SELECT COUNT(*) FROM questions q WHERE q.test_id = t.test_id)
		 FROM tests t
		 ORDER BY t.position ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tests := make([]quiz.TestInfo, 0)
	for rows.Next() {
		var test quiz.TestInfo
		if err := rows.Scan(
			&test.ID,
			&test.Title,
			&test.Description,
			&test.Difficulty,
			&test.Duration,
			&test.QuestionCount,
			&test.Category,
			&test.Authored,
		); err != nil {
			return nil, err
		}
		tests = append(tests, test)
	}
	return tests, rows.Err()
}

func (s *SQLiteStore) Questions(ctx context.Context, testID string) ([]quiz.Question, error) {
	var found int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM tests WHERE test_id = ? LIMIT 1`, testID).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, quiz.ErrTestNotFound
		}
		return nil, err
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT question_id, kind, prompt, options_json, items_json, correct_json, explanation
		 FROM questions
		 WHERE test_id = ?
		 ORDER BY position ASC`,
		testID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]quiz.Question, 0)
	for rows.Next() {
		var (
			question    quiz.Question
			kind        string
			optionsJSON string
			itemsJSON   string
			correctJSON string
		)
		if err := rows.Scan(
			&question.ID,
			&kind,
			&question.Prompt,
			&optionsJSON,
			&itemsJSON,
			&correctJSON,
			&question.Explanation,
		); err != nil {
			return nil, err
		}

		question.Kind = quiz.Kind(kind)
		if err := json.Unmarshal([]byte(optionsJSON), &question.Options); err != nil {
			return nil, errors.Wrapf(err, "decode options of %s", question.ID)
		}
		if err := json.Unmarshal([]byte(itemsJSON), &question.Items); err != nil {
			return nil, errors.Wrapf(err, "decode items of %s", question.ID)
		}
		question.Correct, err = quiz.DecodeAnswer(quiz.AnswerPayload{
			Kind:  question.Kind,
			Value: json.RawMessage(correctJSON),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "decode correct answer of %s", question.ID)
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}
