package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/ClinkedIn/Backend-sub001/internal/adapter"
	"github.com/ClinkedIn/Backend-sub001/internal/bootstrap"
	"github.com/ClinkedIn/Backend-sub001/internal/config"
	"github.com/ClinkedIn/Backend-sub001/internal/repository"
	"github.com/ClinkedIn/Backend-sub001/internal/scheduler"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.LoadAppConfig()

	db := config.NewMongoDatabase(cfg)
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			slog.Error("Error closing database connection", "error", err)
		}
	}()

	if err := repository.EnsureIndexes(context.Background(), db); err != nil {
		slog.Error("Failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	redisAdapter, err := adapter.NewRedisAdapter(cfg)
	if err != nil {
		slog.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}

	s3Client := config.NewS3Client(cfg)
	validate := config.NewValidator()
	chiMux := config.NewChi(cfg)

	app := bootstrap.Init(cfg, db, redisAdapter, validate, s3Client, chiMux)

	go app.Hub.Run()
	go app.Mirror.Run(context.Background())

	sched := scheduler.New(cfg, app.Repo, redisAdapter)
	sched.Start()
	defer sched.Stop()

	addr := fmt.Sprintf(":%s", cfg.AppPort)
	slog.Info("Starting chat service", "port", cfg.AppPort)

	if err := http.ListenAndServe(addr, chiMux); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
