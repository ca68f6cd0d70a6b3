package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	orderByKey     = "key"
	orderByName    = "name"
	orderByUpdated = "updated"
)

// validOrderBy maps allowed OrderBy values to their SQL column expressions.
var validOrderBy = map[string]string{
	orderByKey:     "url ASC",
	orderByName:    "name ASC, url ASC",
	orderByUpdated: "updated_at DESC, url ASC",
}

const defaultOrderBy = "url ASC"

const baseProductsSelect = `SELECT url, COALESCE(name, ''), COALESCE(prices, '[]'),
	COALESCE(owner_email, ''), threshold
FROM tracked_products`

const countProductsSelect = "SELECT COUNT(*) FROM tracked_products"

// likeEscaper makes a search term match literally, as MemoryStore does.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// placeholder renders the n-th (1-based) bind parameter for a SQL dialect.
type placeholder func(n int) string

func dollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

func questionPlaceholder(int) string { return "?" }

// limits returns the effective limit and offset.
func (q *ProductQuery) limits() (limit, offset int) {
	limit = q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, max(q.Offset, 0)
}

// ToSQL builds the data and count queries for q. A nil q selects every row.
func (q *ProductQuery) ToSQL(ph placeholder) (dataSQL, countSQL string, args []any) {
	if q == nil {
		return baseProductsSelect + " ORDER BY " + defaultOrderBy, countProductsSelect, nil
	}

	var conditions []string
	if s := strings.TrimSpace(q.Search); s != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		conditions = append(conditions, fmt.Sprintf(
			`(LOWER(name) LIKE %s ESCAPE '\' OR LOWER(url) LIKE %s ESCAPE '\')`, ph(1), ph(2),
		))
		args = append(args, pattern, pattern)
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderClause := defaultOrderBy
	if col, ok := validOrderBy[q.OrderBy]; ok {
		orderClause = col
	}

	limit, offset := q.limits()
	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY %s LIMIT %d OFFSET %d",
		baseProductsSelect, whereClause, orderClause, limit, offset,
	)
	countSQL = countProductsSelect + whereClause
	return dataSQL, countSQL, args
}
