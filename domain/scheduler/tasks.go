package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/ontocraft/ontocraft/domain/rebase"
	"github.com/ontocraft/ontocraft/pkg/logger"
)

// sweepLockKey serializes the rebase sweep across server instances.
const sweepLockKey = "ont:rebase_sweep"

// RebaseSweepTask rebases drafts stranded on superseded base versions.
type RebaseSweepTask struct {
	db     *bun.DB
	rebase *rebase.Service
	log    *slog.Logger
}

// NewRebaseSweepTask creates a new rebase sweep task.
func NewRebaseSweepTask(db *bun.DB, rebaseSvc *rebase.Service, log *slog.Logger) *RebaseSweepTask {
	return &RebaseSweepTask{
		db:     db,
		rebase: rebaseSvc,
		log:    log.With(logger.Scope("scheduler.rebase_sweep")),
	}
}

// Run sweeps once. A session-level advisory lock skips the run when another
// instance is already sweeping; the lock lives on a dedicated connection so
// acquire and release pair up.
func (t *RebaseSweepTask) Run(ctx context.Context) error {
	start := time.Now()

	conn, err := t.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	var acquired bool
	if err := conn.NewRaw("SELECT pg_try_advisory_lock(hashtext(?))", sweepLockKey).
		Scan(ctx, &acquired); err != nil {
		return err
	}
	if !acquired {
		t.log.Debug("sweep already running elsewhere, skipping")
		return nil
	}
	defer func() {
		var released bool
		if err := conn.NewRaw("SELECT pg_advisory_unlock(hashtext(?))", sweepLockKey).
			Scan(ctx, &released); err != nil {
			t.log.Error("failed to release sweep lock", logger.Error(err))
		}
	}()

	if err := t.rebase.Sweep(ctx); err != nil {
		return err
	}

	t.log.Debug("rebase sweep completed",
		slog.Duration("duration", time.Since(start)))
	return nil
}
