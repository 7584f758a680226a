package scheduler

import (
	"context"
	"log/slog"

	"github.com/uptrace/bun"
	"go.uber.org/fx"

	"github.com/ontocraft/ontocraft/domain/rebase"
	"github.com/ontocraft/ontocraft/internal/config"
)

// Module provides scheduled task functionality.
var Module = fx.Module("scheduler",
	fx.Provide(NewScheduler),
	fx.Invoke(
		RegisterTasks,
		RegisterSchedulerLifecycle,
	),
)

// TaskParams contains dependencies for creating scheduled tasks.
type TaskParams struct {
	fx.In
	Scheduler *Scheduler
	DB        *bun.DB
	Rebase    *rebase.Service
	Cfg       *config.Config
	Log       *slog.Logger
}

// RegisterTasks registers all scheduled tasks.
func RegisterTasks(p TaskParams) error {
	if !p.Cfg.Rebase.SweepEnabled {
		p.Log.Info("rebase sweep disabled, skipping task registration")
		return nil
	}

	sweepTask := NewRebaseSweepTask(p.DB, p.Rebase, p.Log)
	if err := p.Scheduler.AddIntervalTask("draft_rebase_sweep",
		p.Cfg.Rebase.SweepInterval, sweepTask.Run); err != nil {
		p.Log.Error("failed to register rebase sweep task",
			slog.String("error", err.Error()))
	}

	p.Log.Info("registered scheduled tasks",
		slog.Any("tasks", p.Scheduler.ListTasks()))
	return nil
}

// RegisterSchedulerLifecycle ties the scheduler to the fx lifecycle.
func RegisterSchedulerLifecycle(lc fx.Lifecycle, scheduler *Scheduler, cfg *config.Config) {
	if !cfg.Rebase.SweepEnabled {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return scheduler.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return scheduler.Stop(ctx)
		},
	})
}
