package store

// SQL query constants. PostgresStore and SQLiteStore reference these; the
// shared SELECT and COUNT prefixes live in query.go.

// Postgres product queries.
const (
	queryUpsertProduct = `
		INSERT INTO tracked_products (
			url, name, prices, owner_email, threshold, created_at, updated_at
		) VALUES (
			@url, @name, @prices, @owner_email, @threshold, now(), now()
		)
		ON CONFLICT (url) DO UPDATE SET
			name = EXCLUDED.name,
			prices = EXCLUDED.prices,
			owner_email = EXCLUDED.owner_email,
			threshold = EXCLUDED.threshold,
			updated_at = now()`

	queryGetProduct = baseProductsSelect + ` WHERE url = $1`

	queryDeleteProduct = `DELETE FROM tracked_products WHERE url = $1`
)

// SQLite product queries.
const (
	querySQLiteUpsertProduct = `
		INSERT INTO tracked_products (
			url, name, prices, owner_email, threshold, updated_at
		) VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (url) DO UPDATE SET
			name = excluded.name,
			prices = excluded.prices,
			owner_email = excluded.owner_email,
			threshold = excluded.threshold,
			updated_at = CURRENT_TIMESTAMP`

	querySQLiteGetProduct = baseProductsSelect + ` WHERE url = ?`

	querySQLiteDeleteProduct = `DELETE FROM tracked_products WHERE url = ?`
)
