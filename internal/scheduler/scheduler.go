package scheduler

import (
	"context"
	"log/slog"

	"github.com/ClinkedIn/Backend-sub001/internal/adapter"
	"github.com/ClinkedIn/Backend-sub001/internal/config"
	"github.com/ClinkedIn/Backend-sub001/internal/repository"
	"github.com/ClinkedIn/Backend-sub001/internal/scheduler/job"
	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cfg   *config.AppConfig
	repo  *repository.Repository
	redis *adapter.RedisAdapter
	cron  *cron.Cron
}

func New(cfg *config.AppConfig, repo *repository.Repository, redisAdapter *adapter.RedisAdapter) *Scheduler {
	return &Scheduler{
		cfg:   cfg,
		repo:  repo,
		redis: redisAdapter,
		cron:  cron.New(),
	}
}

func (s *Scheduler) Start() {
	slog.Info("Starting Scheduler...")

	s.registerJobs()

	s.cron.Start()
	slog.Info("Scheduler started successfully")
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) registerJobs() {
	_, err := s.cron.AddFunc(s.cfg.MirrorResyncCron, func() {
		slog.Info("Starting Mirror Resync Job")
		ctx := context.Background()
		if err := job.RunMirrorResync(ctx, s.repo, s.redis, s.cfg); err != nil {
			slog.Error("Mirror Resync Job failed", "error", err)
		} else {
			slog.Info("Mirror Resync Job completed")
		}
	})
	if err != nil {
		slog.Error("Failed to register Mirror Resync job", "error", err)
	} else {
		slog.Info("Registered Mirror Resync Job", "schedule", s.cfg.MirrorResyncCron)
	}
}
