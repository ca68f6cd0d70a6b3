package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/market-price-tracker/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements ProductRepository using pgxpool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string, logger *slog.Logger) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// Upsert inserts or replaces a product by key.
func (s *PostgresStore) Upsert(ctx context.Context, p *domain.TrackedProduct) error {
	args := pgx.NamedArgs{
		"url":         p.Key,
		"name":        p.Name,
		"prices":      EncodeSeries(p.Prices),
		"owner_email": p.OwnerEmail,
		"threshold":   p.Threshold,
	}

	if _, err := s.pool.Exec(ctx, queryUpsertProduct, args); err != nil {
		return fmt.Errorf("upserting product %s: %w", p.Key, err)
	}
	return nil
}

// Get retrieves a product by key.
func (s *PostgresStore) Get(ctx context.Context, key string) (*domain.TrackedProduct, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx, queryGetProduct, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting product %s: %w", key, err)
	}
	return p, nil
}

// List returns products matching q, plus the total match count.
func (s *PostgresStore) List(
	ctx context.Context,
	q *ProductQuery,
) ([]domain.TrackedProduct, int, error) {
	dataSQL, countSQL, args := q.ToSQL(dollarPlaceholder)

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
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
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	tag, err := s.pool.Exec(ctx, queryDeleteProduct, key)
	if err != nil {
		return fmt.Errorf("deleting product %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scannable is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanProduct(row scannable) (*domain.TrackedProduct, error) {
	var (
		p      domain.TrackedProduct
		series string
	)
	if err := row.Scan(&p.Key, &p.Name, &series, &p.OwnerEmail, &p.Threshold); err != nil {
		return nil, err
	}
	points, err := DecodeSeries(series)
	if err != nil {
		return nil, err
	}
	p.Prices = points
	return &p, nil
}

// rowIter is the common subset of pgx.Rows and *sql.Rows.
type rowIter interface {
	scannable
	Next() bool
}

// collectProducts scans every row. Rows whose stored series fails to decode
// are logged and skipped so one corrupt row cannot hide the rest.
func collectProducts(rows rowIter, logger *slog.Logger) ([]domain.TrackedProduct, error) {
	products := []domain.TrackedProduct{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if errors.Is(err, ErrSeriesSyntax) {
			logger.Warn("skipping product with unreadable price series", "error", err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, *p)
	}
	return products, nil
}
