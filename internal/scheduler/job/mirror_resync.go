package job

import (
	"context"
	"log/slog"
	"time"

	"github.com/ClinkedIn/Backend-sub001/internal/adapter"
	"github.com/ClinkedIn/Backend-sub001/internal/config"
	"github.com/ClinkedIn/Backend-sub001/internal/mirror"
	"github.com/ClinkedIn/Backend-sub001/internal/repository"
)

// RunMirrorResync recomputes every user's total unread count from the
// primary store and overwrites the cached totals. Mirror writes are best
// effort, so the cache drifts whenever an event is dropped; this job is the
// healing pass.
func RunMirrorResync(ctx context.Context, repo *repository.Repository, redis *adapter.RedisAdapter, cfg *config.AppConfig) error {
	totals, err := repo.User.AllUnreadTotals(ctx)
	if err != nil {
		slog.Error("Failed to aggregate unread totals", "error", err)
		return err
	}

	ttl := time.Duration(cfg.MirrorEventTTLMin) * time.Minute

	var failed int
	for userID, total := range totals {
		if err := redis.Set(ctx, mirror.UnreadTotalKey(userID), total, ttl); err != nil {
			failed++
			slog.Warn("Failed to write unread total", "userID", userID, "error", err)
		}
	}

	slog.Info("Mirror resync finished", "users", len(totals), "failed", failed)
	return nil
}
