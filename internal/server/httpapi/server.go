// Package httpapi exposes the login flow and the guarded dashboard pages
// over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/admingate/internal/logging"
	"github.com/dmitrijs2005/admingate/internal/server/config"
	"github.com/dmitrijs2005/admingate/internal/server/services"
)

type HTTPServer struct {
	cfg    *config.Config
	logger logging.Logger
	login  *services.LoginService
	secret []byte
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, login *services.LoginService) *HTTPServer {
	return &HTTPServer{
		cfg:    cfg,
		logger: l.With("module", "http_server"),
		login:  login,
		secret: []byte(cfg.SecretKey),
	}
}

// Routes builds the router. The session guard wraps the whole tree and
// decides per request whether the path is protected; public paths, the login
// entry point among them, pass through untouched.
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.sessionGuard)

	r.Get("/healthz", s.handleHealth)
	r.Get(s.cfg.LoginPath, s.handleLoginPage)
	r.Post(s.cfg.LoginPath, s.handleLoginSubmit)
	r.Post("/auth/logout", s.handleLogout)
	r.Get(s.cfg.DashboardPath, s.handleDashboard)

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.cfg.EndpointAddr,
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.cfg.EndpointAddr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
