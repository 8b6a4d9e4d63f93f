package db

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"

	"github.com/go-sql-driver/mysql"
)

// ─────────────────────────────────────────────────────────────────────────────
// Driver interface
// ─────────────────────────────────────────────────────────────────────────────

// Driver encapsulates database-specific behaviour: how to build a DSN, how
// to ask the server for its version and how to read the table catalog.
type Driver interface {
	// Name returns the name passed to sql.Register, e.g. "mysql".
	Name() string

	// Product is the human-readable product name shown after connecting.
	Product() string

	// DSN converts structured options into a driver DSN string.
	DSN(opts DriverOptions) (string, error)

	// VersionQuery returns a single-row, single-column query yielding the
	// server version.
	VersionQuery() string

	// CatalogQuery returns a query yielding (table, column, type) rows
	// ordered by table and column position.
	CatalogQuery() string

	// ErrorMapper returns a mapper tuned to this driver's error types.
	ErrorMapper() ErrorMapper
}

// DriverOptions carries the connection parameters in a structured,
// driver-agnostic form. DSN() converts them to the driver's native format.
type DriverOptions struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	// Extra holds driver-specific key/value parameters.
	Extra map[string]string
}

// ─────────────────────────────────────────────────────────────────────────────
// Driver registry
// ─────────────────────────────────────────────────────────────────────────────

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// RegisterDriver adds a Driver to the global registry.
// Panics if a driver with the same name is already registered.
func RegisterDriver(d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if _, ok := drivers[d.Name()]; ok {
		panic(fmt.Sprintf("moviedb/db: driver %q already registered", d.Name()))
	}
	drivers[d.Name()] = d
}

// LookupDriver returns the registered Driver by name or an error.
func LookupDriver(name string) (Driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	d, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("moviedb/db: driver %q not registered", name)
	}
	return d, nil
}

// OpenWithDriver opens a DB using a registered Driver and structured options.
//
//	d, err := db.OpenWithDriver("mysql", db.DriverOptions{
//	    Host: "localhost", User: "root", Password: pw, Database: "moviedb",
//	}, db.Config{MaxOpenConns: 1})
func OpenWithDriver(driverName string, driverOpts DriverOptions, cfg Config) (*DB, error) {
	drv, err := LookupDriver(driverName)
	if err != nil {
		return nil, err
	}

	dsn, err := drv.DSN(driverOpts)
	if err != nil {
		return nil, fmt.Errorf("moviedb/db: DSN construction failed: %w", err)
	}

	cfg.DriverName = drv.Name()
	cfg.DSN = dsn

	d, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	d.SetErrorMapper(ChainMapper(drv.ErrorMapper(), DefaultErrorMapper()))
	return d, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// MySQL driver adapter
// ─────────────────────────────────────────────────────────────────────────────

// MySQLDriver is the go-sql-driver/mysql adapter.
type MySQLDriver struct{}

func (MySQLDriver) Name() string    { return "mysql" }
func (MySQLDriver) Product() string { return "MySQL" }

func (MySQLDriver) DSN(o DriverOptions) (string, error) {
	if o.Host == "" || o.Database == "" {
		return "", fmt.Errorf("mysql driver: Host and Database are required")
	}
	port := o.Port
	if port == 0 {
		port = 3306
	}

	c := mysql.NewConfig()
	c.User = o.User
	c.Passwd = o.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(o.Host, strconv.Itoa(port))
	c.DBName = o.Database
	c.ParseTime = true
	if len(o.Extra) > 0 {
		c.Params = make(map[string]string, len(o.Extra))
		for k, v := range o.Extra {
			c.Params[k] = v
		}
	}
	return c.FormatDSN(), nil
}

func (MySQLDriver) VersionQuery() string { return "SELECT VERSION()" }

func (MySQLDriver) CatalogQuery() string {
	return `
		SELECT TABLE_NAME, COLUMN_NAME, COLUMN_TYPE
		FROM   information_schema.COLUMNS
		WHERE  TABLE_SCHEMA = DATABASE()
		ORDER  BY TABLE_NAME, ORDINAL_POSITION`
}

func (MySQLDriver) ErrorMapper() ErrorMapper { return ErrorMapperFunc(mapMySQLOnly) }

func mapMySQLOnly(err error) error {
	if mapped := mapMySQLError(err); mapped != nil {
		return mapped
	}
	return err
}

// ─────────────────────────────────────────────────────────────────────────────
// SQLite driver adapter
// ─────────────────────────────────────────────────────────────────────────────

// SQLiteDriver is the mattn/go-sqlite3 adapter. The binary must import
// _ "github.com/mattn/go-sqlite3" to register the database/sql driver.
type SQLiteDriver struct{}

func (SQLiteDriver) Name() string    { return "sqlite3" }
func (SQLiteDriver) Product() string { return "SQLite" }

// DSN uses Database as the file path. Foreign keys are switched on unless
// Extra says otherwise, so customers.cc_id is enforced like on MySQL.
func (SQLiteDriver) DSN(o DriverOptions) (string, error) {
	if o.Database == "" {
		return "", fmt.Errorf("sqlite3 driver: Database (file path) is required")
	}
	params := url.Values{}
	params.Set("_foreign_keys", "1")
	for k, v := range o.Extra {
		params.Set(k, v)
	}
	return "file:" + o.Database + "?" + params.Encode(), nil
}

func (SQLiteDriver) VersionQuery() string { return "SELECT sqlite_version()" }

func (SQLiteDriver) CatalogQuery() string {
	return `
		SELECT m.name, p.name, p.type
		FROM   sqlite_master AS m
		JOIN   pragma_table_info(m.name) AS p
		WHERE  m.type = 'table' AND m.name NOT LIKE 'sqlite_%'
		ORDER  BY m.name, p.cid`
}

func (SQLiteDriver) ErrorMapper() ErrorMapper { return ErrorMapperFunc(mapSQLiteOnly) }

func mapSQLiteOnly(err error) error {
	if mapped := mapSQLiteError(err); mapped != nil {
		return mapped
	}
	return err
}

func init() {
	safeRegister(MySQLDriver{})
	safeRegister(SQLiteDriver{})
}

func safeRegister(d Driver) {
	defer func() { recover() }() // swallow duplicate registration panics
	RegisterDriver(d)
}
