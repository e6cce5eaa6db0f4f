package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	defaultBusyTimeoutMS = 5000
	defaultMaxOpenConns  = 5
	pingTimeout          = 5 * time.Second
)

// Options controls how the build history database is opened.
type Options struct {
	Path          string
	EnableWAL     bool
	BusyTimeoutMS int
	MaxOpenConns  int
	MaxIdleConns  int
}

func DefaultOptions(path string) Options {
	return Options{
		Path:          path,
		EnableWAL:     true,
		BusyTimeoutMS: defaultBusyTimeoutMS,
		MaxOpenConns:  defaultMaxOpenConns,
		MaxIdleConns:  defaultMaxOpenConns,
	}
}

func (o Options) withFallbacks() Options {
	if o.BusyTimeoutMS <= 0 {
		o.BusyTimeoutMS = defaultBusyTimeoutMS
	}
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = defaultMaxOpenConns
	}
	if o.MaxIdleConns < 0 {
		o.MaxIdleConns = 0
	}
	o.Path = filepath.Clean(o.Path)
	return o
}

// dsn encodes the pragmas modernc applies to every new connection.
func (o Options) dsn() string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", o.BusyTimeoutMS))
	if o.EnableWAL {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	return "file:" + o.Path + "?" + q.Encode()
}

// Open opens the SQLite database at opts.Path with foreign keys enforced on
// every connection.
func Open(opts Options) (*sql.DB, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	opts = opts.withFallbacks()

	db, err := sql.Open("sqlite", opts.dsn())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", opts.Path, err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxIdleTime(30 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", opts.Path, err)
	}
	return db, nil
}

// OpenHistory creates the parent directory of path when needed, opens the
// database and applies pending migrations.
func OpenHistory(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(filepath.Clean(path)), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := Open(DefaultOptions(path))
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
