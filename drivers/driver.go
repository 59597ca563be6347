package drivers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
)

const (
	DriverPostgreSQL string = "postgres"
	DriverMySQL      string = "mysql"
	DriverSQLite     string = "sqlite"
	DriverMongoDB    string = "mongodb"
)

// Provider is the metadata and query surface the worker talks to. One
// Provider wraps one open connection; callers Close it when done.
type Provider interface {
	DatabaseType() string
	TestConnection(ctx context.Context) error
	Version(ctx context.Context) (string, error)
	GetSchemas(ctx context.Context) ([]string, error)
	GetTables(ctx context.Context, schema string) ([]Table, error)
	GetTableDetails(ctx context.Context, name, schema string) (Table, error)
	GetRoutines(ctx context.Context, schema string) ([]Routine, error)
	ExecuteQuery(ctx context.Context, query string) (QueryResult, error)
	Close() error
}

// Params is a plain value copy of everything needed to open a connection.
type Params struct {
	Driver   string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	// Path is the database file for SQLite.
	Path string
	// SSLMode is passed through for PostgreSQL; empty means disable.
	SSLMode string
	// PostgresDriver picks the database/sql driver: "pq" (default) or "pgx".
	PostgresDriver string
}

// URL renders the params as a dburl-compatible connection string.
func (p Params) URL() string {
	scheme := p.Driver
	if scheme == "" {
		scheme = DriverPostgreSQL
	}
	if scheme == DriverSQLite {
		return "file:" + p.Path
	}
	if scheme == DriverPostgreSQL && p.PostgresDriver == "pgx" {
		scheme = "pgx"
	}

	u := &url.URL{Scheme: scheme, Path: "/" + p.Database}
	if p.Port > 0 {
		u.Host = net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
	} else {
		u.Host = p.Host
	}
	if p.Username != "" {
		if p.Password != "" {
			u.User = url.UserPassword(p.Username, p.Password)
		} else {
			u.User = url.User(p.Username)
		}
	}
	if p.Driver == DriverPostgreSQL || p.Driver == "" {
		sslmode := p.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		u.RawQuery = url.Values{"sslmode": {sslmode}}.Encode()
	}
	return u.String()
}

// Open connects to the database described by p and verifies it with a ping.
func Open(ctx context.Context, p Params) (Provider, error) {
	switch p.Driver {
	case DriverPostgreSQL, "postgresql", "":
		return openPostgres(ctx, p)
	case DriverMySQL:
		return openMySQL(ctx, p)
	case DriverSQLite:
		return openSQLite(ctx, p)
	case DriverMongoDB:
		return openMongoDB(ctx, p)
	default:
		return nil, &Error{Kind: KindConfig, Err: fmt.Errorf("unsupported driver %q", p.Driver)}
	}
}

// ErrorKind classifies provider failures.
type ErrorKind int

const (
	KindConnection ErrorKind = iota
	KindQuery
	KindNotFound
	KindPermission
	KindTimeout
	KindConfig
	KindInternal
	KindNotImplemented
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnection:
		return "Connection failed"
	case KindQuery:
		return "Query failed"
	case KindNotFound:
		return "Not found"
	case KindPermission:
		return "Permission denied"
	case KindTimeout:
		return "Timeout"
	case KindConfig:
		return "Invalid configuration"
	case KindNotImplemented:
		return "Not implemented"
	default:
		return "Internal error"
	}
}

// Error is returned by every Provider method.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a provider Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// wrapErr tags err with kind, promoting context deadlines to KindTimeout.
func wrapErr(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, Err: err}
}

func notFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Err: fmt.Errorf(format, args...)}
}
