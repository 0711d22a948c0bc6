package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"ledger/internal/config"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.Config
		wantDebug bool
	}{
		{"development info", config.Config{AppEnv: "development", LogLevel: "info"}, false},
		{"production debug", config.Config{AppEnv: "production", LogLevel: "debug"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := SetupLogger(&tt.cfg, "api")
			if logger.Component() != "api" {
				t.Errorf("component = %q", logger.Component())
			}
			if got := logger.Enabled(context.Background(), slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("LEDGER_CLI_TEST=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	os.Unsetenv("LEDGER_CLI_TEST")
	t.Cleanup(func() { os.Unsetenv("LEDGER_CLI_TEST") })

	LoadEnvFile(path)
	if got := os.Getenv("LEDGER_CLI_TEST"); got != "from-file" {
		t.Errorf("LEDGER_CLI_TEST = %q", got)
	}

	// Missing files are ignored.
	LoadEnvFile(filepath.Join(t.TempDir(), "absent.env"))
}

func TestGracefulShutdownRunsCleanupOnSignal(t *testing.T) {
	logger := SetupLogger(&config.Config{LogLevel: "error"}, "test")
	cleaned := make(chan struct{})
	ctx, done := GracefulShutdown(logger, time.Second, func(context.Context) { close(cleaned) })

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("kill: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}
	if ctx.Err() == nil {
		t.Error("context should be cancelled after shutdown")
	}
	select {
	case <-cleaned:
	default:
		t.Error("cleanup did not run")
	}
	WaitForShutdown(ctx, done)
}
