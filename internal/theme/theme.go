// Package theme stores the light/dark display preference.
package theme

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

var ErrInvalidTheme = errors.New("invalid theme")

func Parse(raw string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(raw))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", errors.Wrapf(ErrInvalidTheme, "%q", raw)
}

// Store persists a single saved preference.
type Store interface {
	Load(ctx context.Context) (Theme, bool, error)
	Save(ctx context.Context, t Theme) error
}

// Resolve picks the saved theme, falling back to the system preference.
func Resolve(saved Theme, ok bool, prefersDark bool) Theme {
	if ok && (saved == Light || saved == Dark) {
		return saved
	}
	if prefersDark {
		return Dark
	}
	return Light
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Service{store: store}
}

// Get returns the effective theme and whether it was explicitly saved.
func (s *Service) Get(ctx context.Context, prefersDark bool) (Theme, bool, error) {
	saved, ok, err := s.store.Load(ctx)
	if err != nil {
		return "", false, err
	}
	return Resolve(saved, ok, prefersDark), ok, nil
}

func (s *Service) Set(ctx context.Context, t Theme) error {
	if t != Light && t != Dark {
		return errors.Wrapf(ErrInvalidTheme, "%q", t)
	}
	return s.store.Save(ctx, t)
}

// Toggle flips the effective theme and saves the result.
func (s *Service) Toggle(ctx context.Context, prefersDark bool) (Theme, error) {
	current, _, err := s.Get(ctx, prefersDark)
	if err != nil {
		return "", err
	}
	next := Dark
	if current == Dark {
		next = Light
	}
	if err := s.store.Save(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

type MemoryStore struct {
	mu    sync.Mutex
	theme Theme
	set   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) (Theme, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme, m.set, nil
}

func (m *MemoryStore) Save(_ context.Context, t Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = t
	m.set = true
	return nil
}
