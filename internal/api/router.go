package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/trustnotify/internal/auth"
	"github.com/dmitrymomot/trustnotify/internal/dispatch"
	"github.com/dmitrymomot/trustnotify/internal/inbox"
	"github.com/dmitrymomot/trustnotify/internal/notification"
	"github.com/dmitrymomot/trustnotify/pkg/signature"
)

// Dispatcher runs a notification request to a stored record.
type Dispatcher interface {
	Dispatch(ctx context.Context, req dispatch.Request) (notification.Record, error)
}

// Records is the read side of the record store.
type Records interface {
	FindByUser(ctx context.Context, userID string) ([]notification.Record, error)
	Get(ctx context.Context, userID, id string) (notification.Record, error)
}

// Verifier checks record signatures.
type Verifier interface {
	Verify(p signature.Payload, tag string) bool
}

// Subscriber opens a live in-app feed for one user.
type Subscriber interface {
	Subscribe(ctx context.Context, userID string) (*inbox.Subscription, error)
}

// CORSConfig lists origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Dispatcher Dispatcher
	Records    Records
	Verifier   Verifier
	Inbox      Subscriber
	Auth       *auth.Service
	Readiness  []ReadinessCheck
	CORS       CORSConfig
	Logger     *slog.Logger
}

// NewRouter builds the HTTP handler tree.
func NewRouter(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	origins := d.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	h := &handlers{
		dispatcher: d.Dispatcher,
		records:    d.Records,
		verifier:   d.Verifier,
		inbox:      d.Inbox,
		origins:    origins,
		log:        log,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(requestLogger(log))
	r.Use(recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { respondError(w, ErrNotFound) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, HTTPError{Code: http.StatusMethodNotAllowed, Key: "method_not_allowed"})
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Trusted Notifications API running"))
	})
	r.Get("/healthz", HealthCheckHandler(log))
	r.Get("/readyz", HealthCheckHandler(log, d.Readiness...))

	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(auth.Middleware(auth.MiddlewareConfig{
			Service: d.Auth,
			ErrorHandler: func(w http.ResponseWriter, _ *http.Request, _ error) {
				respondError(w, ErrUnauthorized)
			},
		}))
		r.Post("/send", h.send)
		r.Get("/", h.list)
		r.Get("/stream", h.stream)
		r.Get("/{id}", h.get)
	})

	return r
}
