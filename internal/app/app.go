package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"call-scheduler/internal/audit"
	"call-scheduler/internal/calls"
	"call-scheduler/internal/config"
	"call-scheduler/internal/reporting"
	"call-scheduler/internal/scheduler"
	"call-scheduler/pkg/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	_ "modernc.org/sqlite"
)

// App bundles the shared dependencies of both binaries.
type App struct {
	Config    config.Config
	Log       *slog.Logger
	Repo      calls.Repository
	Scheduler *scheduler.Scheduler
	Events    *audit.Service
	Reports   *reporting.Service

	closers []func() error
}

// Open connects the store (migrating SQL schemas), the event feed and the
// scheduler, then loads pending calls. A failed initial load is logged and
// the scheduler starts empty.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	repo, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Repo = repo
	a.closers = append(a.closers, closeStore)

	eventsRepo, err := a.openEvents(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Events = audit.NewService(eventsRepo)
	a.Reports = reporting.NewService(repo)

	a.Scheduler = scheduler.New(repo, scheduler.Options{Logger: log, Events: a.Events})
	if _, err := a.Scheduler.Initialize(ctx); err != nil {
		log.Warn("scheduler started without stored calls", "err", err)
	}
	return a, nil
}

// OpenStore returns the repository selected by STORE_DRIVER and a func that
// releases it.
func OpenStore(ctx context.Context, cfg config.Config) (calls.Repository, func() error, error) {
	var (
		db  *sql.DB
		err error
		d   calls.Dialect
	)
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return calls.NewMemoryRepo(), func() error { return nil }, nil
	case config.DriverPostgres:
		db, err = utils.OpenPostgres(ctx, cfg.PostgresDSN(), utils.PoolConfig{})
		d = calls.Postgres
	case config.DriverSQLite:
		db, err = utils.OpenSQLite(ctx, cfg.Store.SQLitePath, 5*time.Second)
		d = calls.SQLite
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s init failed: %w", cfg.Store.Driver, err)
	}

	repo := calls.NewSQLRepo(db, d)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return repo, db.Close, nil
}

func (a *App) openEvents(ctx context.Context) (audit.Repository, error) {
	if !a.Config.RedisEnabled() {
		return audit.NewMemoryRepo(), nil
	}
	rdb, err := utils.OpenRedis(ctx, utils.RedisConfig{
		Addr:     a.Config.RedisAddr(),
		Password: a.Config.Redis.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("redis init failed: %w", err)
	}
	a.closers = append(a.closers, rdb.Close)
	return audit.NewRedisRepo(rdb, audit.DefaultStream, a.Config.Redis.EventsMaxLen), nil
}

// Close releases everything Open acquired, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// StartMissedSweep schedules MarkOverdueMissed on the configured cron spec.
// It returns a no-op stop func when the sweep is disabled.
func (a *App) StartMissedSweep(ctx context.Context) (stop func(), err error) {
	spec := a.Config.Sweep.Schedule
	if spec == "" {
		return func() {}, nil
	}

	c := cron.New()
	grace := a.Config.Sweep.Grace
	_, err = c.AddFunc(spec, func() {
		marked, err := a.Scheduler.MarkOverdueMissed(ctx, grace)
		if err != nil {
			a.Log.Error("missed sweep failed", "marked", len(marked), "err", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("missed sweep schedule %q: %w", spec, err)
	}
	c.Start()
	a.Log.Info("missed sweep enabled", "schedule", spec, "grace", grace.String())

	return func() { <-c.Stop().Done() }, nil
}
