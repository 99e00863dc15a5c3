package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/puzzle3d.net/internal/adapter/postgres/resultrepository"
	"gitlab.com/puzzle3d.net/internal/adapter/redis/puzzleport"
	"gitlab.com/puzzle3d.net/internal/config"
	"gitlab.com/puzzle3d.net/internal/core/ports/secondary"
	puzzlesvc "gitlab.com/puzzle3d.net/internal/core/services/puzzle"
	"gitlab.com/puzzle3d.net/internal/core/services/solver"
	logger2 "gitlab.com/puzzle3d.net/internal/global/logger"
	http2 "gitlab.com/puzzle3d.net/internal/http"
	"gitlab.com/puzzle3d.net/internal/schedulerengine"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger2.Info("Starting puzzle solver service")

	logger := logger2.Logger

	sysCfg := config.NewSystemConfig()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})
	defer redisClient.Close()

	// Result persistence is optional. The service stays fully functional
	// without Postgres, it just loses solve history across restarts.
	var resultRepo secondary.SolveResultRepository
	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		logger.Warn("Postgres unavailable, solve history disabled", "error", err)
	} else {
		defer db.Close()
		resultRepo = resultrepository.NewSolveResultRepository(db, logger, "public")
	}

	// SECONDARY PORTS
	puzzleRepo := puzzleport.NewPuzzleRepository(redisClient, logger)

	//services
	puzzleService := puzzlesvc.NewPuzzleService(puzzleRepo, logger)
	solverService := solver.NewSolverService(sysCfg.SolverCfg, resultRepo, puzzleRepo, logger)
	serviceProvider := http2.NewServiceProvider(puzzleService, solverService, resultRepo)

	//server
	httServer := http2.NewServer(sysCfg.HTTPPort, "puzzleSolver", *serviceProvider, sysCfg.AuthConfig, logger)
	err = httServer.Init()
	if err != nil {
		panic(err)
	}
	ctxBg, stopEngines := context.WithCancel(context.Background())
	httServer.Start(ctxBg)

	retentionEngine := schedulerengine.NewRetentionEngine(sysCfg.SolverCfg, solverService, logger)
	if !sysCfg.DebugMode {
		retentionEngine.StartRetentionEngine(ctxBg)
	}

	<-quit
	logger.Info("Shutting down server...")
	stopEngines()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httServer.Stop(ctx)

	logger.Info("successfully shutdown server")
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
