package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/tropicaldog17/capgains/docs"
	"github.com/tropicaldog17/capgains/internal/config"
	"github.com/tropicaldog17/capgains/internal/db"
	"github.com/tropicaldog17/capgains/internal/handlers"
	"github.com/tropicaldog17/capgains/internal/logger"
	"github.com/tropicaldog17/capgains/internal/repositories"
	"github.com/tropicaldog17/capgains/internal/services"
)

// @title Capital Gains API
// @version 1.0
// @description FIFO cost-basis matching and realized capital gains by fiscal year.
// @BasePath /api
func main() {
	configPath := flag.String("config", "capgains.toml", "path to the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer zl.Sync()

	database, err := db.Connect(&cfg.Database)
	if err != nil {
		zl.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Health(); err != nil {
		zl.Fatal("Database health check failed", zap.Error(err))
	}
	zl.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("name", cfg.Database.Name))

	repo := repositories.NewTransactionRepository(database)
	gainsService := services.NewGainsService(repo, cfg.CacheTTL(), cfg.Gains.Workers, zl)
	transactionService := services.NewTransactionService(repo, gainsService, zl)

	router := handlers.NewRouter(handlers.RouterConfig{
		Transactions:   transactionService,
		Gains:          gainsService,
		Health:         database,
		Logger:         zl,
		CORSOrigins:    cfg.Server.CORSOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zl.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			zl.Fatal("Server failed", zap.Error(err))
		}
	case <-ctx.Done():
	}

	zl.Info("Shutting down", zap.Duration("timeout", cfg.ShutdownTimeout()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Graceful shutdown failed", zap.Error(err))
	}
}
