package storage_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/compapol/component"
	"github.com/kbukum/compapol/logger"
	"github.com/kbukum/compapol/storage"
	_ "github.com/kbukum/compapol/storage/local"
)

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "error", Format: logger.FormatJSON}, "test", io.Discard)
}

func TestConfigDefaults(t *testing.T) {
	var cfg storage.Config
	cfg.ApplyDefaults()
	if cfg.Provider != storage.ProviderLocal || cfg.BasePath != "uploads" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := (&storage.Config{Provider: "s3", BasePath: "x"}).Validate(); err == nil {
		t.Error("expected unsupported provider error")
	}
}

func TestComponentCreatesSpoolAndSweeps(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "old.m4a")
	fresh := filepath.Join(dir, "new.m4a")
	_ = os.WriteFile(stale, []byte("x"), 0o600)
	_ = os.WriteFile(fresh, []byte("x"), 0o600)
	old := time.Now().Add(-3 * time.Hour)
	_ = os.Chtimes(stale, old, old)

	c := storage.NewComponent(storage.Config{BasePath: dir}, quietLogger())
	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %v", h.Status)
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop(context.Background())

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("expected stale upload to be swept")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("expected fresh upload to survive")
	}
	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %+v", h)
	}
	if !strings.Contains(c.Describe().Details, dir) {
		t.Errorf("unexpected description %+v", c.Describe())
	}
}

func TestComponentSweepDisabled(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "old.m4a")
	_ = os.WriteFile(stale, []byte("x"), 0o600)
	old := time.Now().Add(-48 * time.Hour)
	_ = os.Chtimes(stale, old, old)

	c := storage.NewComponent(storage.Config{BasePath: dir, SweepAfter: -1}, quietLogger())
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := os.Stat(stale); err != nil {
		t.Error("sweep should be disabled")
	}
}
