package quiz

import (
	"context"
	"errors"
)

var (
	ErrTestNotFound      = errors.New("test not found")
	ErrTestUnavailable   = errors.New("test not available")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrInvalidQuestion   = errors.New("invalid question")
	ErrAnswerKind        = errors.New("answer does not match question kind")
	ErrInvalidTransition = errors.New("operation not allowed in current phase")
)

// Catalog is the read-only source of tests and their questions.
// Questions returns ErrTestNotFound for unknown ids and an empty slice for
// tests that are listed but have no authored questions.
type Catalog interface {
	ListTests(ctx context.Context) ([]TestInfo, error)
	Questions(ctx context.Context, testID string) ([]Question, error)
}
