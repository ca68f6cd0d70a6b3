package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

// SQLiteStore implements ProductRepository on a local SQLite file using the
// cgo-free modernc driver.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path and applies
// pending migrations.
func NewSQLiteStore(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	s := &SQLiteStore{db: db, logger: logger}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() {
	if err := s.db.Close(); err != nil {
		s.logger.Warn("closing sqlite database", "error", err)
	}
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return RunSQLiteMigrations(ctx, s.db)
}

// Upsert inserts or replaces a product by key.
func (s *SQLiteStore) Upsert(ctx context.Context, p *domain.TrackedProduct) error {
	_, err := s.db.ExecContext(ctx, querySQLiteUpsertProduct,
		p.Key, p.Name, EncodeSeries(p.Prices), p.OwnerEmail, p.Threshold,
	)
	if err != nil {
		return fmt.Errorf("upserting product %s: %w", p.Key, err)
	}
	return nil
}

// Get retrieves a product by key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*domain.TrackedProduct, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, querySQLiteGetProduct, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting product %s: %w", key, err)
	}
	return p, nil
}

// List returns products matching q, plus the total match count.
func (s *SQLiteStore) List(
	ctx context.Context,
	q *ProductQuery,
) ([]domain.TrackedProduct, int, error) {
	dataSQL, countSQL, args := q.ToSQL(questionPlaceholder)

	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows, s.logger)
	if err != nil {
		return nil, 0, err
	}
	return products, total, rows.Err()
}

// Delete removes a product by key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, querySQLiteDeleteProduct, key)
	if err != nil {
		return fmt.Errorf("deleting product %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting product %s: %w", key, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
