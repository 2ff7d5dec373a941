// FashionRec - Item-to-Item Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fashionrec

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/lib/pq"

	"github.com/tomtom215/fashionrec/internal/config"
	"github.com/tomtom215/fashionrec/internal/logging"
	"github.com/tomtom215/fashionrec/internal/metrics"
)

// Supported drivers.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// ErrUnsupportedDriver is returned by Open for a driver other than duckdb or
// postgres.
var ErrUnsupportedDriver = errors.New("unsupported catalog driver")

// Store is a handle on the products table.
type Store struct {
	db      *sql.DB
	driver  string
	timeout time.Duration
}

// Open connects to the catalog and verifies the connection. For DuckDB the
// parent directory of a file DSN is created.
func Open(ctx context.Context, cfg *config.CatalogConfig) (*Store, error) {
	switch cfg.Driver {
	case DriverDuckDB:
		if err := ensureDuckDBDir(cfg.DSN); err != nil {
			return nil, err
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, duckDBMemoryDSN(cfg.Driver, cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s catalog: %w", cfg.Driver, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db, driver: cfg.Driver, timeout: cfg.QueryTimeout}
	if err := s.Ping(ctx); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("failed to connect to %s catalog: %w", cfg.Driver, err)
	}

	logging.Ctx(ctx).Debug().
		Str("driver", cfg.Driver).
		Str("dsn", redactDSN(cfg.DSN)).
		Msg("Catalog opened")
	return s, nil
}

// Driver returns the driver the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// observe records a catalog operation and passes err through.
func observe(op string, start time.Time, err error) error {
	metrics.RecordCatalogQuery(op, time.Since(start), err)
	return err
}

func ensureDuckDBDir(dsn string) error {
	path := strings.SplitN(dsn, "?", 2)[0]
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create catalog directory %s: %w", dir, err)
	}
	return nil
}

// duckDBMemoryDSN maps ":memory:" to the empty DSN the DuckDB driver uses for
// an in-memory database.
func duckDBMemoryDSN(driver, dsn string) string {
	if driver == DriverDuckDB && dsn == ":memory:" {
		return ""
	}
	return dsn
}

// redactDSN hides a password in a URL-style DSN.
func redactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	if user, _, hasPass := strings.Cut(userinfo, ":"); hasPass {
		return scheme + "://" + user + ":***@" + host
	}
	return dsn
}

func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close catalog connection")
	}
}
