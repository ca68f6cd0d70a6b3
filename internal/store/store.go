// Package store defines the durable product repository. Business logic
// depends on the ProductRepository interface, never on a concrete backend,
// so tests can run against mocks or the in-memory implementation.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// ErrNotFound is returned by Get and Delete for unknown keys.
var ErrNotFound = errors.New("not found")

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// ProductQuery defines optional filters for product listings.
type ProductQuery struct {
	Search  string // case-insensitive substring of name or key
	Limit   int    // default 50
	Offset  int
	OrderBy string // "key", "name", "updated"
}

// ProductRepository is keyed durable storage for tracked products. Upsert
// is idempotent by key and replaces the stored series wholesale.
type ProductRepository interface {
	Upsert(ctx context.Context, p *domain.TrackedProduct) error
	Get(ctx context.Context, key string) (*domain.TrackedProduct, error)
	// List returns every product when q is nil.
	List(ctx context.Context, q *ProductQuery) ([]domain.TrackedProduct, int, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close()
}

// Migrator is implemented by backends with a schema.
type Migrator interface {
	Migrate(ctx context.Context) error
}

// Open connects to the backend named by driver. dsn is a connection string
// for postgres and a file path for sqlite; memory ignores it.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (ProductRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch driver {
	case DriverPostgres:
		return NewPostgresStore(ctx, dsn, logger)
	case DriverSQLite:
		return NewSQLiteStore(ctx, dsn, logger)
	case DriverMemory, "":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
