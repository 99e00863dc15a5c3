package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/puzzle3d.net/internal/config"
	"gitlab.com/puzzle3d.net/internal/core/ports/primary"
	"gitlab.com/puzzle3d.net/internal/core/ports/secondary"
	puzzlesvc "gitlab.com/puzzle3d.net/internal/core/services/puzzle"
	"gitlab.com/puzzle3d.net/internal/core/services/solver"
	"gitlab.com/puzzle3d.net/internal/handlers"
	"gitlab.com/puzzle3d.net/internal/handlers/puzzles"
	"gitlab.com/puzzle3d.net/internal/handlers/response"
	"gitlab.com/puzzle3d.net/internal/handlers/solve"
)

type ServiceProvider struct {
	puzzleService puzzlesvc.IPuzzleService
	solverService solver.ISolverService
	resultRepo    secondary.SolveResultRepository
}

func NewServiceProvider(
	puzzleService puzzlesvc.IPuzzleService,
	solverService solver.ISolverService,
	resultRepo secondary.SolveResultRepository,
) *ServiceProvider {
	return &ServiceProvider{
		puzzleService: puzzleService,
		solverService: solverService,
		resultRepo:    resultRepo,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	AuthConfig      *config.AuthConfig
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, authCfg *config.AuthConfig, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		AuthConfig:      authCfg,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()

	puzzles.
		NewPuzzleHandler(s.ServiceProvider.puzzleService, s.logger).
		RegisterRoutes(r)
	solve.
		NewSolveHandler(s.ServiceProvider.solverService, s.ServiceProvider.puzzleService, s.ServiceProvider.resultRepo, s.logger).
		RegisterRoutes(r)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": s.ServiceName})
	}).Methods("GET")

	// Token check sits in front of everything mutating; with no secret
	// configured it is a pass-through.
	middleware := handlers.New(s.AuthConfig)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Method == http.MethodGet {
				next.ServeHTTP(w, req)
				return
			}
			middleware.TokenMiddleware(next).ServeHTTP(w, req)
		})
	})

	s.router = r
	return nil
}

func (s *Server) Start(ctx context.Context) {
	// Set up server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.srv = srv

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Shutting down http server...")
	if s.srv != nil {
		if err := s.srv.Shutdown(ctx); err != nil {
			s.logger.Error("Server forced to shutdown", "error", err)
		}
	}
}
