package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/linlv/internal/config"
	"github.com/MrSnakeDoc/linlv/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linlv/internal/httpserver/mw"
	"github.com/MrSnakeDoc/linlv/internal/httpserver/routes"
	"github.com/MrSnakeDoc/linlv/internal/logger"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	http   *http.Server
	logger logger.Logger
}

// New builds the HTTP server on top of the LinLv router.
func New(cfg *config.Config, loggerClient logger.Logger, d deps.Deps) *Server {
	timeout := requestTimeout(d)

	return &Server{
		http: &http.Server{
			Addr:              cfg.ListenPort,
			Handler:           newRouter(loggerClient, d, timeout),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      timeout + 5*time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		logger: loggerClient,
	}
}

// requestTimeout must outlast the slowest assistant reply.
func requestTimeout(d deps.Deps) time.Duration {
	if d.RequestTimeout > 0 {
		return d.RequestTimeout
	}
	return d.AssistantTimeout + 5*time.Second
}

func newRouter(loggerClient logger.Logger, d deps.Deps, timeout time.Duration) chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.GetHead,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		mw.Log(loggerClient, d.TrustProxy),
		mw.CORS(d.CORSOrigins),
	)
	routes.RegisterAll(r, d)
	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start blocks until the server fails or is shut down. A graceful shutdown
// returns nil.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", logger.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("HTTP server draining connections")
	return s.http.Shutdown(ctx)
}
