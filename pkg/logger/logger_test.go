package logger

import (
	"errors"
	"log/slog"
	"testing"
)

func TestScope(t *testing.T) {
	tests := []struct {
		name  string
		scope string
		want  string
	}{
		{"basic scope", "overlay", "overlay"},
		{"nested scope", "graph.repo", "graph.repo"},
		{"empty scope", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := Scope(tt.scope)
			if attr.Key != "scope" {
				t.Errorf("Scope() key = %q, want %q", attr.Key, "scope")
			}
			if attr.Value.String() != tt.want {
				t.Errorf("Scope() value = %q, want %q", attr.Value.String(), tt.want)
			}
		})
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"simple error", errors.New("something went wrong")},
		{"nil error", nil},
		{"joined error", errors.Join(errors.New("outer"), errors.New("inner"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attr := Error(tt.err)
			if attr.Key != "error" {
				t.Errorf("Error() key = %q, want %q", attr.Key, "error")
			}
			if got := attr.Value.Any(); got != tt.err {
				t.Errorf("Error() value = %v, want %v", got, tt.err)
			}
		})
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		enabled  slog.Level
		disabled *slog.Level
	}{
		{"default is info", "", slog.LevelInfo, levelPtr(slog.LevelDebug)},
		{"debug", "debug", slog.LevelDebug, nil},
		{"warn", "warn", slog.LevelWarn, levelPtr(slog.LevelInfo)},
		{"warning alias", "warning", slog.LevelWarn, levelPtr(slog.LevelInfo)},
		{"error", "error", slog.LevelError, levelPtr(slog.LevelWarn)},
		{"case insensitive", "DeBuG", slog.LevelDebug, nil},
		{"invalid falls back to info", "loud", slog.LevelInfo, levelPtr(slog.LevelDebug)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GO_ENV", "")
			t.Setenv("LOG_LEVEL", tt.level)

			log := NewLogger()
			if log == nil {
				t.Fatal("NewLogger() returned nil")
			}
			if !log.Enabled(nil, tt.enabled) {
				t.Errorf("NewLogger() should enable %v for LOG_LEVEL=%q", tt.enabled, tt.level)
			}
			if tt.disabled != nil && log.Enabled(nil, *tt.disabled) {
				t.Errorf("NewLogger() should not enable %v for LOG_LEVEL=%q", *tt.disabled, tt.level)
			}
		})
	}
}

func TestNewLogger_ProductionJSON(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("GO_ENV", "production")

	log := NewLogger()
	if log == nil {
		t.Fatal("NewLogger() returned nil")
	}
	if !log.Enabled(nil, slog.LevelInfo) {
		t.Error("NewLogger() should have info level enabled in production")
	}
}

func levelPtr(l slog.Level) *slog.Level { return &l }
