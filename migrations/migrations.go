// Package migrations embeds the schema of the world tables. The scripts run
// unchanged on Postgres and SQLite.
package migrations

import (
	"embed"
	"io/fs"
	"slices"
	"strings"
)

//go:embed *.sql
var files embed.FS

// Migration is one schema step.
type Migration struct {
	Name string
	SQL  string
}

// Up returns the up migrations in apply order.
func Up() ([]Migration, error) {
	return load(".up.sql", false)
}

// Down returns the down migrations in reverse apply order.
func Down() ([]Migration, error) {
	return load(".down.sql", true)
}

func load(suffix string, reverse bool) ([]Migration, error) {
	names, err := fs.Glob(files, "*"+suffix)
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	if reverse {
		slices.Reverse(names)
	}

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		data, err := files.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: strings.TrimSuffix(name, suffix), SQL: string(data)})
	}
	return out, nil
}
