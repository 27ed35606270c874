package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/worldreports/internal/adapters/sqldb"
	"github.com/samirrijal/worldreports/internal/pkg/config"
	"github.com/samirrijal/worldreports/migrations"
)

// execer runs one migration script.
type execer func(ctx context.Context, script string) error

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("worldreports-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var steps []migrations.Migration
	switch os.Args[1] {
	case "up":
		steps, err = migrations.Up()
	case "down":
		steps, err = migrations.Down()
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
	if err != nil {
		log.Fatalf("load migrations: %v", err)
	}

	ctx := context.Background()
	exec, closeDB, err := connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer closeDB()

	for _, m := range steps {
		if err := exec(ctx, m.SQL); err != nil {
			log.Fatalf("exec %s: %v", m.Name, err)
		}
		fmt.Printf("OK  %s (%s)\n", m.Name, os.Args[1])
	}

	log.Printf("all %s migrations applied", os.Args[1])
}

// connect opens the configured database for schema changes. The MySQL world
// database ships with its own schema and is never migrated.
func connect(ctx context.Context, db config.DatabaseConfig) (execer, func(), error) {
	switch db.Driver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, db.DSN())
		if err != nil {
			return nil, nil, err
		}
		exec := func(ctx context.Context, script string) error {
			_, err := pool.Exec(ctx, script)
			return err
		}
		return exec, pool.Close, nil

	case config.DriverSQLite:
		conn, err := sqldb.Open(ctx, db.Driver, db.WritableDSN(), sqldb.Options{MaxConns: 1, Retries: 1})
		if err != nil {
			return nil, nil, err
		}
		return sqldb.NewSeedRepo(conn).Exec, conn.Close, nil
	}
	return nil, nil, fmt.Errorf("migrations are not supported for driver %q", db.Driver)
}
