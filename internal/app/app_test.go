package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"call-scheduler/internal/calls"
	"call-scheduler/internal/config"
)

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestOpen_SQLiteReloadsPendingCalls(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{Store: config.StoreConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "calls.db")}}

	a, err := Open(ctx, cfg, testLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	c, err := a.Scheduler.Schedule(ctx, calls.NewVideo("Ann", "5551111111", time.Now().Add(time.Hour), "Zoom").WithPriority(3))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := Open(ctx, cfg, testLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	next, ok := b.Scheduler.Next()
	if !ok || next.ID != c.ID || next.Platform != "Zoom" || next.Priority != 3 {
		t.Fatalf("expected reloaded call, got %+v (ok=%v)", next, ok)
	}
	if !next.ScheduledTime.Equal(c.ScheduledTime) {
		t.Fatalf("scheduled time changed: %s vs %s", next.ScheduledTime, c.ScheduledTime)
	}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	if _, _, err := OpenStore(context.Background(), config.Config{Store: config.StoreConfig{Driver: "mongo"}}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStartMissedSweep(t *testing.T) {
	a, err := Open(context.Background(), config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}}, testLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	stop, err := a.StartMissedSweep(context.Background())
	if err != nil {
		t.Fatalf("disabled sweep: %v", err)
	}
	stop()

	a.Config.Sweep.Schedule = "not a spec"
	if _, err := a.StartMissedSweep(context.Background()); err == nil {
		t.Fatalf("expected invalid spec error")
	}

	a.Config.Sweep.Schedule = "@every 1h"
	stop, err = a.StartMissedSweep(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	stop()
}
