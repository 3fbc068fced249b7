// Package httpapi is the REST transport: gin routes under /api, a JSON
// envelope for every response and graceful shutdown.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/config"
	"github.com/dmitrijs2005/authgate/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address    string
	users      *services.UserService
	checker    *services.HealthService
	gate       *auth.Gate
	log        logging.Logger
	dev        bool
	corsOrigin string
	maxBody    int64
	router     *gin.Engine
}

// NewServer builds the gin router for cfg. Call Run to serve it or Handler
// to mount it elsewhere.
func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService, hs *services.HealthService, gate *auth.Gate) *Server {
	s := &Server{
		address:    cfg.HTTPAddr,
		users:      us,
		checker:    hs,
		gate:       gate,
		log:        l.With("module", "http_server"),
		dev:        cfg.IsDevelopment(),
		corsOrigin: cfg.CORSOrigin,
		maxBody:    cfg.MaxBodyBytes,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.recovery(), s.accessLog(), s.cors(), s.limitBody())

	api := r.Group("/api")
	{
		api.GET("/health", s.healthCheck)

		authGroup := api.Group("/auth")
		authGroup.POST("/signup", s.signup)
		authGroup.POST("/login", s.login)
		authGroup.GET("/me", s.guard(s.gate.Authenticate), s.me)

		admin := api.Group("/admin", s.guard(auth.Chain(s.gate.Authenticate, auth.RequireAdmin())))
		admin.GET("/users/:id", s.getUser)
	}

	r.NoRoute(s.noRoute)
	return r
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
