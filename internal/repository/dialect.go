package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects the SQL variant for the configured backend. It is resolved
// once at startup from configuration and passed in explicitly.
type Dialect int

const (
	// Postgres is the warehouse backend (lib/pq).
	Postgres Dialect = iota
	// SQLite is the legacy single-file backend (mattn/go-sqlite3).
	SQLite
)

// ParseDialect maps a configured data source name to its dialect
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres":
		return Postgres, nil
	case "sqlite":
		return SQLite, nil
	default:
		return 0, fmt.Errorf("unknown data source %q: use 'postgres' or 'sqlite'", name)
	}
}

// DriverName returns the database/sql driver for the backend
func (d Dialect) DriverName() string {
	if d == SQLite {
		return "sqlite3"
	}
	return "postgres"
}

func (d Dialect) String() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

// table qualifies a table name for the backend. The warehouse keeps the
// comptroller tables under the fiscal schema; the legacy file has no schemas.
func (d Dialect) table(name string) string {
	if d == Postgres {
		return "fiscal." + name
	}
	return name
}

// like returns the case-insensitive pattern-match operator. SQLite's LIKE is
// case-insensitive for ASCII already; Postgres needs ILIKE.
func (d Dialect) like() string {
	if d == Postgres {
		return "ILIKE"
	}
	return "LIKE"
}

// rebind converts ?-style placeholders to the backend's parameter syntax.
// Queries in this package never contain a literal question mark.
func (d Dialect) rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
