package httpapi

import (
	"bytes"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"studyhub/internal/logging"
)

const maxLoggedBodyBytes = 2048

func NewRouter(opts Options) http.Handler {
	api := NewAPI(opts)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Use(requestLogger(api.logger, opts.LogBodies))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", api.HandleHealth)
	r.Get("/tests", api.HandleListTests)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", api.HandleCreateSession)
		r.Route("/{session_id}", func(r chi.Router) {
			r.Get("/", api.HandleGetSession)
			r.Delete("/", api.HandleDeleteSession)
			r.Put("/answers/{question_id}", api.HandleRecordAnswer)
			r.Post("/advance", api.HandleAdvance)
			r.Post("/retreat", api.HandleRetreat)
			r.Post("/finish", api.HandleFinish)
			r.Post("/retake", api.HandleRetake)
			r.Get("/report", api.HandleReport)
			r.Post("/questions/{question_id}/order/move", api.HandleMove)
			r.Post("/questions/{question_id}/order/shuffle", api.HandleShuffle)
		})
	})

	r.Get("/topics", api.HandleListTopics)
	r.Get("/topics/{topic_id}", api.HandleGetTopic)

	r.Get("/preferences/theme", api.HandleGetTheme)
	r.Put("/preferences/theme", api.HandleSetTheme)
	r.Post("/preferences/theme/toggle", api.HandleToggleTheme)

	return r
}

// statusRecorder captures the status code and, up to maxLogBytes, the body.
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	maxLogBytes  int
	bytesWritten int
	logBody      bytes.Buffer
	truncated    bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.bytesWritten += n

	if r.maxLogBytes > 0 {
		remaining := r.maxLogBytes - r.logBody.Len()
		if remaining >= n {
			r.logBody.Write(p[:n])
		} else {
			if remaining > 0 {
				r.logBody.Write(p[:remaining])
			}
			r.truncated = true
		}
	}
	return n, err
}

func requestLogger(logger logging.Logger, logBodies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			if logBodies {
				recorder.maxLogBytes = maxLoggedBodyBytes
			}

			next.ServeHTTP(recorder, r)

			args := []any{
				"request_id", middleware.GetReqID(r.Context()),
				"bytes", recorder.bytesWritten,
			}
			if logBodies {
				args = append(args, "body", recorder.logBody.String(), "truncated", recorder.truncated)
			}
			logger.LogRequest(r.Context(), r.Method, r.URL.Path, recorder.statusCode, time.Since(start), args...)
		})
	}
}
