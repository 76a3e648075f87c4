package main

import (
	"context"
	"database/sql"
	"flag"
	"log"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/tropicaldog17/capgains/internal/config"
	"github.com/tropicaldog17/capgains/internal/logger"
	"github.com/tropicaldog17/capgains/migrations"
)

func main() {
	configPath := flag.String("config", "capgains.toml", "path to the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	zl, err := logger.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer zl.Sync()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		zl.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		zl.Fatal("Failed to ping database", zap.Error(err))
	}

	if _, err := migrations.Run(ctx, db, zl); err != nil {
		zl.Fatal("Migration failed", zap.Error(err))
	}
}
