package database

import (
	"strconv"
	"strings"
)

// Dialect captures the few places where sqlite and postgres disagree.
type Dialect struct {
	Name string
	// Lower is the SQL function used for case-insensitive matching.
	Lower string

	numbered            bool
	createStudentsTable string
}

var (
	SQLite = Dialect{
		Name:     "sqlite",
		Lower:    "unicode_lower",
		numbered: false,
		createStudentsTable: `
		CREATE TABLE IF NOT EXISTS students (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			class_label TEXT NOT NULL,
			score REAL NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	Postgres = Dialect{
		Name:     "postgres",
		Lower:    "LOWER",
		numbered: true,
		createStudentsTable: `
		CREATE TABLE IF NOT EXISTS students (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			class_label TEXT NOT NULL,
			score DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
)

// Rebind rewrites ? placeholders into the dialect's native form.
// Statements must not contain ? inside string literals.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
