package httpapi

import (
	"time"

	"studyhub/internal/logging"
	"studyhub/internal/quiz"
	"studyhub/internal/study"
	"studyhub/internal/theme"
)

type Options struct {
	Catalog     quiz.Catalog
	Topics      *study.Library
	Theme       *theme.Service
	Logger      logging.Logger
	SessionTTL  time.Duration
	CORSOrigins []string
	LogBodies   bool
}

type API struct {
	catalog  quiz.Catalog
	sessions *Registry
	topics   *study.Library
	theme    *theme.Service
	logger   logging.Logger
}

func NewAPI(opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	themes := opts.Theme
	if themes == nil {
		themes = theme.NewService(nil)
	}

	catalog := opts.Catalog
	return &API{
		catalog: catalog,
		sessions: NewRegistry(opts.SessionTTL, func() *quiz.Engine {
			return quiz.NewEngine(catalog, quiz.WithLogger(logger))
		}),
		topics: opts.Topics,
		theme:  themes,
		logger: logger,
	}
}
