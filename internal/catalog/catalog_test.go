package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub/internal/quiz"
)

func TestDefaultCatalog(t *testing.T) {
	static, err := Default()
	require.NoError(t, err)

	tests, err := static.ListTests(context.Background())
	require.NoError(t, err)
	require.Len(t, tests, 6)

	assert.Equal(t, "data-structures-basic", tests[0].ID)
	assert.Equal(t, 15, tests[0].QuestionCount)
	assert.Equal(t, 5, tests[0].Authored)
	assert.True(t, tests[0].Available())
	for _, test := range tests[1:] {
		assert.False(t, test.Available(), test.ID)
	}

	questions, err := static.Questions(context.Background(), "data-structures-basic")
	require.NoError(t, err)
	require.Len(t, questions, 5)
	assert.Equal(t, quiz.SingleSelect(0), questions[0].Correct)
	assert.Equal(t, quiz.Boolean(true), questions[1].Correct)
	assert.Equal(t, quiz.Text("O(log n)"), questions[2].Correct)
	assert.Equal(t, quiz.Sequence{"Merge Sort", "Quick Sort", "Bubble Sort", "Selection Sort"}, questions[4].Correct)
	assert.Equal(t, []string{"Merge Sort", "Bubble Sort", "Quick Sort", "Selection Sort"}, questions[4].Items)
}

func TestStaticQuestions(t *testing.T) {
	static, err := Default()
	require.NoError(t, err)
	ctx := context.Background()

	empty, err := static.Questions(ctx, "oop-principles")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = static.Questions(ctx, "missing")
	assert.True(t, errors.Is(err, quiz.ErrTestNotFound))

	first, err := static.Questions(ctx, "data-structures-basic")
	require.NoError(t, err)
	first[4].Items[0] = "changed"

	second, err := static.Questions(ctx, "data-structures-basic")
	require.NoError(t, err)
	assert.Equal(t, "Merge Sort", second[4].Items[0])
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]struct {
		doc   string
		field string
	}{
		"missing title": {
			doc: `
tests:
  - id: a
    difficulty: Beginner
    category: X
`,
			field: "Title",
		},
		"bad difficulty": {
			doc: `
tests:
  - id: a
    title: A
    difficulty: Expert
    category: X
`,
			field: "Difficulty",
		},
		"duplicate test": {
			doc: `
tests:
  - {id: a, title: A, difficulty: Beginner, category: X}
  - {id: a, title: B, difficulty: Beginner, category: X}
`,
			field: "tests[1].id",
		},
		"duplicate question": {
			doc: `
tests:
  - id: a
    title: A
    difficulty: Beginner
    category: X
    questions:
      - {id: "1", kind: boolean, prompt: P, correct: true}
      - {id: "1", kind: boolean, prompt: Q, correct: false}
`,
			field: "tests[0].questions[1].id",
		},
		"index out of range": {
			doc: `
tests:
  - id: a
    title: A
    difficulty: Beginner
    category: X
    questions:
      - {id: "1", kind: single-select, prompt: P, options: [x, y], correct: 5}
`,
			field: "tests[0].questions[0]",
		},
		"wrong correct type": {
			doc: `
tests:
  - id: a
    title: A
    difficulty: Beginner
    category: X
    questions:
      - {id: "1", kind: ordered-sequence, prompt: P, items: [x, y], correct: x}
`,
			field: "tests[0].questions[0]",
		},
		"missing correct": {
			doc: `
tests:
  - id: a
    title: A
    difficulty: Beginner
    category: X
    questions:
      - {id: "1", kind: exact-text, prompt: P}
`,
			field: "tests[0].questions[0]",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			require.Error(t, err)

			var problems ValidationErrors
			require.True(t, errors.As(err, &problems), "got %T: %v", err, err)
			require.NotEmpty(t, problems)

			found := false
			for _, problem := range problems {
				if strings.Contains(problem.Field, tc.field) {
					found = true
				}
			}
			assert.True(t, found, "no problem for %s in %v", tc.field, problems)
		})
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("tests:\n  - {id: a, title: A, difficulty: Beginner, category: X, colour: red}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse catalog")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
tests:
  - id: only
    title: Only
    difficulty: Beginner
    category: X
    questions:
      - {id: q, kind: exact-text, prompt: "2+2?", correct: "4"}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	static, err := LoadFile(path)
	require.NoError(t, err)

	questions, err := static.Questions(context.Background(), "only")
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, quiz.Text("4"), questions[0].Correct)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "open catalog")
}
