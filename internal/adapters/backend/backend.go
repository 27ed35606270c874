// Package backend opens the geography store selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/worldreports/internal/adapters/dataset"
	"github.com/samirrijal/worldreports/internal/adapters/memory"
	"github.com/samirrijal/worldreports/internal/adapters/postgres"
	"github.com/samirrijal/worldreports/internal/adapters/sqldb"
	"github.com/samirrijal/worldreports/internal/core/ports"
	"github.com/samirrijal/worldreports/internal/pkg/config"
)

// Backend bundles the read ports of one store with its lifecycle hooks.
type Backend struct {
	Driver    string
	Geography ports.GeographyStore
	Lookups   ports.LookupRepository
	ping      func(context.Context) error
	stat      func() any
	close     func()
}

// Ping checks that the store answers.
func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

// Stat returns pool statistics, or nil for stores without a pool.
func (b *Backend) Stat() any {
	if b.stat == nil {
		return nil
	}
	return b.stat()
}

// Close releases the store.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open connects to the store named by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DSN(), postgres.Options{
			MaxConns:   int32(cfg.MaxConns),
			Retries:    cfg.ConnectRetries,
			RetryDelay: cfg.ConnectRetryDelay,
		})
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return &Backend{
			Driver:    cfg.Driver,
			Geography: postgres.NewGeographyRepo(db),
			Lookups:   postgres.NewLookupRepo(db),
			ping:      db.Ping,
			stat:      db.Stat,
			close:     db.Close,
		}, nil

	case config.DriverMySQL, config.DriverSQLite:
		db, err := sqldb.Open(ctx, cfg.Driver, cfg.DSN(), sqldb.Options{
			MaxConns:   cfg.MaxConns,
			Retries:    cfg.ConnectRetries,
			RetryDelay: cfg.ConnectRetryDelay,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Driver, err)
		}
		return &Backend{
			Driver:    cfg.Driver,
			Geography: sqldb.NewGeographyRepo(db),
			Lookups:   sqldb.NewLookupRepo(db),
			ping:      db.Ping,
			stat:      db.Stat,
			close:     db.Close,
		}, nil

	case config.DriverMemory:
		ds := dataset.Sample()
		if cfg.DatasetDir != "" {
			var err error
			if ds, err = dataset.LoadDir(ctx, cfg.DatasetDir); err != nil {
				return nil, fmt.Errorf("memory: %w", err)
			}
			if err := ds.Validate(); err != nil {
				return nil, fmt.Errorf("memory: %s: %w", cfg.DatasetDir, err)
			}
		} else {
			slog.Warn("no dataset_dir configured, serving the built-in sample")
		}
		store := memory.New(ds)
		return &Backend{Driver: cfg.Driver, Geography: store, Lookups: store}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
