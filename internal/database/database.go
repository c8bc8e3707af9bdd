package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/JKhoa/TieuLuanMTK/internal/config"
	"github.com/rs/zerolog"
)

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Result reports the outcome of a write statement.
type Result struct {
	RowsAffected int64
	// LastInsertID is zero when the driver cannot report it (postgres);
	// use INSERT ... RETURNING through QueryRow instead.
	LastInsertID int64
}

// DB is the storage accessor. Every call acquires its own connection,
// runs one statement and releases the connection before returning.
type DB struct {
	sql     *sql.DB
	dialect Dialect
	log     zerolog.Logger
	closers []func()
}

// Open connects to the store named by cfg.DatabaseURL and verifies it is reachable.
// postgres:// and postgresql:// URLs use pgx; anything else is treated as a sqlite path.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*DB, error) {
	log = log.With().Str("component", "database").Logger()

	if isPostgresURL(cfg.DatabaseURL) {
		return openPostgres(ctx, cfg, log)
	}
	return openSQLite(ctx, sqlitePath(cfg.DatabaseURL), log)
}

func isPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// Dialect returns the SQL dialect of the underlying store.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Ping checks that the store is still reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.sql.PingContext(ctx)
}

// Close releases every resource held by the accessor.
func (db *DB) Close() {
	for i := len(db.closers) - 1; i >= 0; i-- {
		db.closers[i]()
	}
	db.closers = nil
}

// WithConn hands fn a dedicated connection and releases it on every exit path.
func (db *DB) WithConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := db.sql.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil && !errors.Is(cerr, sql.ErrConnDone) {
			db.log.Warn().Err(cerr).Msg("release connection")
		}
	}()
	return fn(conn)
}

// Query runs a read statement and calls scan once per row, in result order.
func (db *DB) Query(ctx context.Context, query string, scan func(row Scanner) error, args ...any) error {
	return db.WithConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, db.dialect.Rebind(query), args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			if err := scan(rows); err != nil {
				return err
			}
		}
		return rows.Err()
	})
}

// QueryRow runs a statement expected to return a single row.
// scan receives sql.ErrNoRows through Scan when nothing matched.
func (db *DB) QueryRow(ctx context.Context, query string, scan func(row Scanner) error, args ...any) error {
	return db.WithConn(ctx, func(conn *sql.Conn) error {
		return scan(conn.QueryRowContext(ctx, db.dialect.Rebind(query), args...))
	})
}

// Exec runs a write statement and reports affected rows and, where supported,
// the identity assigned by an insert.
func (db *DB) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	var result Result
	err := db.WithConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, db.dialect.Rebind(query), args...)
		if err != nil {
			return err
		}
		if result.RowsAffected, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if id, err := res.LastInsertId(); err == nil {
			result.LastInsertID = id
		}
		return nil
	})
	return result, err
}
