package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/samirrijal/worldreports/internal/adapters/dataset"
	"github.com/samirrijal/worldreports/internal/adapters/postgres"
	"github.com/samirrijal/worldreports/internal/adapters/sqldb"
	"github.com/samirrijal/worldreports/internal/pkg/config"
	"github.com/samirrijal/worldreports/internal/pkg/logging"
)

// seed loads country.csv, city.csv and countrylanguage.csv from a directory
// (or the built-in sample when none is given) into the configured database,
// replacing whatever the tables held.
func main() {
	cfg, err := config.Load("worldreports-seed")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text")

	ctx := context.Background()
	start := time.Now()

	ds := dataset.Sample()
	source := "built-in sample"
	if len(os.Args) > 1 {
		source = os.Args[1]
		if ds, err = dataset.LoadDir(ctx, source); err != nil {
			log.Fatalf("load %s: %v", source, err)
		}
	}
	if err := ds.Validate(); err != nil {
		log.Fatalf("invalid dataset %s: %v", source, err)
	}
	slog.Info("dataset loaded",
		"source", source,
		"countries", len(ds.Countries),
		"cities", len(ds.Cities),
		"languages", len(ds.Languages),
	)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN(), postgres.Options{
			MaxConns:   2,
			Retries:    cfg.Database.ConnectRetries,
			RetryDelay: cfg.Database.ConnectRetryDelay,
		})
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer db.Close()

		counts, err := postgres.NewSeedRepo(db).Replace(ctx, ds)
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		slog.Info("seed complete", "countries", counts.Countries, "cities", counts.Cities, "languages", counts.Languages, "elapsed", time.Since(start))

	case config.DriverMySQL, config.DriverSQLite:
		db, err := sqldb.Open(ctx, cfg.Database.Driver, cfg.Database.WritableDSN(), sqldb.Options{
			MaxConns:   1,
			Retries:    cfg.Database.ConnectRetries,
			RetryDelay: cfg.Database.ConnectRetryDelay,
		})
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer db.Close()

		if err := sqldb.NewSeedRepo(db).Replace(ctx, ds); err != nil {
			log.Fatalf("seed: %v", err)
		}
		slog.Info("seed complete", "driver", cfg.Database.Driver, "elapsed", time.Since(start))

	default:
		log.Fatalf("seeding is not supported for driver %q", cfg.Database.Driver)
	}
}
