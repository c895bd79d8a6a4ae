package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/learnhub/internal/auth"
	"github.com/gokatarajesh/learnhub/internal/catalog"
	"github.com/gokatarajesh/learnhub/internal/config"
	"github.com/gokatarajesh/learnhub/internal/history"
	"github.com/gokatarajesh/learnhub/internal/learning"
	"github.com/gokatarajesh/learnhub/internal/logging"
	"github.com/gokatarajesh/learnhub/internal/notify"
	"github.com/gokatarajesh/learnhub/internal/runner"
	httperrors "github.com/gokatarajesh/learnhub/pkg/http/errors"
)

// NewUpgrader builds the WebSocket upgrader, accepting the configured CORS origins.
func NewUpgrader(cfg config.CORS) websocket.Upgrader {
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[origin] = struct{}{}
	}
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if _, ok := allowed["*"]; ok {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// Handlers groups the feature handlers mounted on the router. Nil members are
// skipped.
type Handlers struct {
	Validator auth.TokenValidator
	Auth      *auth.HTTPHandlers
	Catalog   *catalog.HTTPHandler
	Sessions  *runner.HTTPHandlers
	History   *history.HTTPHandler
	Learning  *learning.HTTPHandler
	Notify    *notify.Handler
}

// Deps are the infrastructure clients checked by /v1/ping.
type Deps struct {
	DB       *sql.DB
	Redis    *redis.Client
	Gatherer prometheus.Gatherer
}

// NewHTTPServer wires routes for the API service.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, deps Deps, h Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, logger, deps, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the chi router; split out so tests can drive it directly.
func NewRouter(cfg *config.App, logger zerolog.Logger, deps Deps, h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(logger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	} else {
		r.Handle("/metrics", promhttp.Handler())
	}

	if h.Notify != nil {
		r.Get("/ws/notifications", h.Notify.HandleWebSocket)
	}

	r.Route("/v1", func(r chi.Router) {
		if h.Validator != nil {
			r.Use(auth.AuthMiddleware(h.Validator, logger))
		}

		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			if err := pingDependencies(r.Context(), deps); err != nil {
				log := logging.FromContext(r.Context())
				log.Error().Err(err).Msg("dependency ping failed")
				httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeServiceUnavailable, "upstream error")
				return
			}
			httperrors.RespondJSON(w, http.StatusOK, map[string]bool{"pong": true})
		})

		if h.Auth != nil {
			r.Post("/auth/login", h.Auth.Login)
			r.With(auth.RequireAuth).Post("/auth/logout", h.Auth.Logout)
			r.With(auth.RequireAuth).Get("/users/me", h.Auth.GetMe)
		}

		if h.Catalog != nil {
			r.Get("/quizzes", h.Catalog.HandleList)
			r.Get("/quizzes/{quizID}", h.Catalog.HandleGet)
		}

		if h.Learning != nil {
			r.Route("/themes", h.Learning.ThemeRoutes)
		}

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			if h.Sessions != nil {
				r.Route("/sessions", h.Sessions.Routes)
			}
			if h.History != nil {
				r.Get("/history", h.History.HandleList)
			}
			if h.Learning != nil {
				r.Route("/courses", h.Learning.CourseRoutes)
			}
		})
	})

	return r
}

func pingDependencies(ctx context.Context, deps Deps) error {
	if deps.DB != nil {
		if err := deps.DB.PingContext(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
	}
	if deps.Redis != nil {
		if err := deps.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
	}
	return nil
}

// requestLogger logs one line per request and stores a request-scoped logger on the
// context.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logging.Component(logger, "http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()

			next.ServeHTTP(ww, r.WithContext(logging.IntoContext(r.Context(), reqLogger)))

			reqLogger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(started)).
				Msg("request")
		})
	}
}
