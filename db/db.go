// Package db is the SQL-first gateway between the console session and the
// relational store. All SQL is explicit and every value travels as a
// positional parameter; nothing is ever interpolated into statement text.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Config
// ─────────────────────────────────────────────────────────────────────────────

// Config holds all options for opening the store handle.
type Config struct {
	// DSN is the driver-specific data-source name.
	DSN string

	// DriverName is "mysql" or "sqlite3".
	DriverName string

	// Pool settings. A console session is single-threaded, so callers
	// normally leave MaxOpenConns at 1.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// Hooks executed around every statement (logging, statement counters).
	// nil entries are silently skipped.
	Hooks []Hook
}

// ─────────────────────────────────────────────────────────────────────────────
// DB: the central type
// ─────────────────────────────────────────────────────────────────────────────

// DB wraps *sql.DB with hook dispatch and unified error mapping.
//
// A DB is owned by exactly one session. After Close every method fails with
// ErrClosed; the wrapper never reconnects on its own.
type DB struct {
	sqldb  *sql.DB
	cfg    Config
	hooks  hookChain
	errMap ErrorMapper
	driver Driver
}

// Open opens the database described by cfg and verifies connectivity with Ping.
// Callers are responsible for calling Close() when the session ends.
func Open(cfg Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("moviedb/db: DSN must not be empty")
	}
	if cfg.DriverName == "" {
		return nil, fmt.Errorf("moviedb/db: DriverName must not be empty")
	}

	sqldb, err := sql.Open(cfg.DriverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("moviedb/db: open: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqldb.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	d := &DB{
		sqldb:  sqldb,
		cfg:    cfg,
		hooks:  newHookChain(cfg.Hooks),
		errMap: DefaultErrorMapper(),
	}
	if drv, err := LookupDriver(cfg.DriverName); err == nil {
		d.driver = drv
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqldb.PingContext(ctx); err != nil {
		_ = sqldb.Close()
		return nil, connectionError(d.mapErr(err))
	}

	return d, nil
}

// Raw returns the underlying *sql.DB, or nil once the handle is closed.
func (d *DB) Raw() *sql.DB { return d.sqldb }

// Driver returns the registered Driver the handle was opened with, if any.
func (d *DB) Driver() Driver { return d.driver }

// SetErrorMapper replaces the default error mapper with a custom one.
func (d *DB) SetErrorMapper(m ErrorMapper) { d.errMap = m }

// Close releases the store handle and invalidates the wrapper.
// Safe to call multiple times; only the first call reaches the driver.
func (d *DB) Close() error {
	if d.sqldb == nil {
		return nil
	}
	err := d.sqldb.Close()
	d.sqldb = nil
	return d.mapErr(err)
}

// Closed reports whether Close has been called.
func (d *DB) Closed() bool { return d.sqldb == nil }

// Ping verifies that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	sqldb, err := d.handle()
	if err != nil {
		return err
	}
	return d.mapErr(sqldb.PingContext(ctx))
}

// Stats returns pool statistics. A closed handle reports zero values.
func (d *DB) Stats() sql.DBStats {
	if d.sqldb == nil {
		return sql.DBStats{}
	}
	return d.sqldb.Stats()
}

// ─────────────────────────────────────────────────────────────────────────────
// Query execution helpers
// ─────────────────────────────────────────────────────────────────────────────

// ExecResult is the outcome of a statement that returns no rows.
type ExecResult struct {
	RowsAffected int64
	// LastInsertID is the store-generated key of the inserted row. It is only
	// meaningful when HasLastInsertID is true.
	LastInsertID    int64
	HasLastInsertID bool
}

// Exec executes a statement that returns no rows (INSERT, UPDATE, DELETE).
func (d *DB) Exec(ctx context.Context, query string, args ...any) (ExecResult, error) {
	sqldb, err := d.handle()
	if err != nil {
		return ExecResult{}, err
	}

	start := time.Now()
	d.hooks.Before(ctx, query, args)
	res, err := sqldb.ExecContext(ctx, query, args...)
	err = d.mapErr(err)
	d.hooks.After(ctx, query, args, time.Since(start), err)
	if err != nil {
		return ExecResult{}, err
	}

	var out ExecResult
	if out.RowsAffected, err = res.RowsAffected(); err != nil {
		return ExecResult{}, d.mapErr(err)
	}
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
		out.HasLastInsertID = true
	}
	return out, nil
}

// Query executes a query that returns rows.
// The caller MUST close the returned *sql.Rows; prefer Select, which does.
func (d *DB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	sqldb, err := d.handle()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	d.hooks.Before(ctx, query, args)
	rows, err := sqldb.QueryContext(ctx, query, args...)
	err = d.mapErr(err)
	d.hooks.After(ctx, query, args, time.Since(start), err)
	return rows, err
}

// QueryRow executes a query expected to return at most one row.
// ErrNotFound is returned from Scan when no row matches.
func (d *DB) QueryRow(ctx context.Context, query string, args ...any) *Row {
	sqldb, err := d.handle()
	if err != nil {
		return &Row{err: err, errMap: d.errMap}
	}

	start := time.Now()
	d.hooks.Before(ctx, query, args)
	raw := sqldb.QueryRowContext(ctx, query, args...)
	d.hooks.After(ctx, query, args, time.Since(start), d.mapErr(raw.Err()))
	return &Row{raw: raw, errMap: d.errMap}
}

// ─────────────────────────────────────────────────────────────────────────────
// Querier / Scanner
// ─────────────────────────────────────────────────────────────────────────────

// Querier is the statement surface repositories depend on.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (ExecResult, error)
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) *Row
}

var _ Querier = (*DB)(nil)

// Scanner is satisfied by *sql.Rows and *Row.
type Scanner interface {
	Scan(dest ...any) error
}

// Select runs query, converts every row with scan and always releases the
// result set, whether scanning succeeds or not. Rows come back in the
// store's natural order.
func Select[T any](ctx context.Context, q Querier, scan func(Scanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("moviedb/db: scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("moviedb/db: rows: %w", err)
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Server information
// ─────────────────────────────────────────────────────────────────────────────

// ServerInfo names the connected product and its version.
type ServerInfo struct {
	Product string
	Version string
}

func (s ServerInfo) String() string { return s.Product + " v" + s.Version }

// ServerInfo asks the store for its version using the driver's version query.
func (d *DB) ServerInfo(ctx context.Context) (ServerInfo, error) {
	if d.driver == nil {
		return ServerInfo{}, fmt.Errorf("moviedb/db: driver %q not registered", d.cfg.DriverName)
	}
	var version string
	if err := d.QueryRow(ctx, d.driver.VersionQuery()).Scan(&version); err != nil {
		return ServerInfo{}, err
	}
	return ServerInfo{Product: d.driver.Product(), Version: version}, nil
}

// Column describes one column of a table as reported by the store catalog.
type Column struct {
	Name string
	Type string
}

// Table is a catalog entry: a table and its columns in ordinal order.
type Table struct {
	Name    string
	Columns []Column
}

// Tables lists the tables of the connected database with their columns.
func (d *DB) Tables(ctx context.Context) ([]Table, error) {
	if d.driver == nil {
		return nil, fmt.Errorf("moviedb/db: driver %q not registered", d.cfg.DriverName)
	}

	type entry struct{ table, column, typ string }
	entries, err := Select(ctx, d, func(s Scanner) (entry, error) {
		var e entry
		err := s.Scan(&e.table, &e.column, &e.typ)
		return e, err
	}, d.driver.CatalogQuery())
	if err != nil {
		return nil, err
	}

	var tables []Table
	for _, e := range entries {
		if n := len(tables); n == 0 || tables[n-1].Name != e.table {
			tables = append(tables, Table{Name: e.table})
		}
		last := &tables[len(tables)-1]
		last.Columns = append(last.Columns, Column{Name: e.column, Type: e.typ})
	}
	return tables, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ─────────────────────────────────────────────────────────────────────────────

func (d *DB) handle() (*sql.DB, error) {
	if d.sqldb == nil {
		return nil, ErrClosed
	}
	return d.sqldb, nil
}

func (d *DB) mapErr(err error) error {
	if err == nil {
		return nil
	}
	return d.errMap.Map(err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Row: wraps *sql.Row to translate errors uniformly
// ─────────────────────────────────────────────────────────────────────────────

// Row wraps *sql.Row and maps errors through the unified error mapper.
type Row struct {
	raw    *sql.Row
	err    error
	errMap ErrorMapper
}

// Scan copies columns from the matched row into dest values.
// ErrNotFound is returned when no row was found.
func (r *Row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return r.errMap.Map(r.raw.Scan(dest...))
}
