package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerIsRunning(t *testing.T) {
	s := NewScheduler(slog.Default())

	if s.IsRunning() {
		t.Error("new scheduler should not be running")
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.IsRunning() {
		t.Error("scheduler should be running after Start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.IsRunning() {
		t.Error("scheduler should not be running after Stop")
	}
}

func TestSchedulerAddIntervalTask(t *testing.T) {
	s := NewScheduler(slog.Default())

	var runs atomic.Int64
	task := func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}

	if err := s.AddIntervalTask("tick", time.Second, task); err != nil {
		t.Fatalf("AddIntervalTask: %v", err)
	}
	if got := len(s.ListTasks()); got != 1 {
		t.Errorf("expected 1 task, got %d", got)
	}

	// same name replaces, not duplicates
	if err := s.AddIntervalTask("tick", 2*time.Second, task); err != nil {
		t.Fatalf("AddIntervalTask replace: %v", err)
	}
	if got := len(s.ListTasks()); got != 1 {
		t.Errorf("expected 1 task after replace, got %d", got)
	}
}

func TestSchedulerRunTaskSwallowsErrors(t *testing.T) {
	s := NewScheduler(slog.Default())

	// a failing task must not panic the scheduler goroutine
	s.runTask("boom", func(ctx context.Context) error {
		return context.DeadlineExceeded
	})
}
