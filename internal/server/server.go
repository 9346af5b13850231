package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mete/schoolhub/internal/bootstrap"
	"github.com/mete/schoolhub/internal/config"
	"github.com/mete/schoolhub/internal/db"
	"github.com/mete/schoolhub/internal/pkg/logger"
)

const (
	defaultConfigPath    = "configs/config.yaml"
	defaultMigrationsDir = "migrations"
	shutdownTimeout      = 10 * time.Second
)

// Server bundles the HTTP server with its configuration and database pool.
type Server struct {
	config   *config.Config
	router   *gin.Engine
	database *db.PostgresDB
	http     *http.Server
}

// NewServer loads the configuration, connects to the database and wires all
// application dependencies.
func NewServer() (*Server, error) {
	cfg, err := bootstrap.LoadConfigAndSetupLogger(defaultConfigPath)
	if err != nil {
		return nil, err
	}

	database, err := bootstrap.SetupDatabase(cfg, defaultMigrationsDir)
	if err != nil {
		return nil, err
	}

	deps := bootstrap.BuildDependencies(cfg, database)
	router := bootstrap.SetupRouter(cfg, deps)

	return &Server{
		config:   cfg,
		router:   router,
		database: database,
		http: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}, nil
}

// Run starts the HTTP server and blocks until it fails or a shutdown signal
// arrives.
func (s *Server) Run() error {
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().Str("port", s.config.Server.Port).Msg("Starting HTTP server")
		serverErrors <- s.http.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		return s.Shutdown()
	}
}

// Shutdown gracefully stops the HTTP server and closes the database pool.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		s.http.Close()
		return fmt.Errorf("could not stop server gracefully: %w", err)
	}

	s.database.Close()
	logger.Info().Msg("Server stopped")
	return nil
}
