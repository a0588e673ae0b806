package source

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bjaus/colfmt"
)

// Querier runs a query. *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Open opens a database with a registered driver and pings it.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%s: dsn must not be empty", driver)
	}
	if !slices.Contains(sql.Drivers(), driver) {
		return nil, fmt.Errorf("unknown driver %q (registered: %s)", driver, strings.Join(sql.Drivers(), ", "))
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", driver, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping: %w", driver, err)
	}
	return db, nil
}

// SQL streams the rows of query. Every result column becomes one row value;
// byte slices are returned as strings. The result set is closed when the
// sequence ends or the consumer stops.
func SQL(ctx context.Context, db Querier, query string, args ...any) Rows {
	return func(yield func(colfmt.Row, error) bool) {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			yield(nil, fmt.Errorf("query: %w", err))
			return
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			yield(nil, err)
			return
		}
		for rows.Next() {
			values := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				yield(nil, fmt.Errorf("scan: %w", err))
				return
			}
			for i, v := range values {
				if b, ok := v.([]byte); ok {
					values[i] = string(b)
				}
			}
			if !yield(colfmt.Row(values), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// Order sorts a SELECT by one column.
type Order struct {
	Column     string
	Descending bool
}

// SelectQuery builds a SELECT of columns from table with identifiers quoted.
// table may be schema-qualified ("public.patient").
func SelectQuery(table string, columns []string, order ...Order) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("%w: no columns", ErrIdentifier)
	}
	from, err := quoteQualified(table)
	if err != nil {
		return "", err
	}
	cols := make([]string, len(columns))
	for i, c := range columns {
		if cols[i], err = quoteIdent(c); err != nil {
			return "", err
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(cols, ", "), from)
	if len(order) > 0 {
		keys := make([]string, len(order))
		for i, o := range order {
			q, err := quoteIdent(o.Column)
			if err != nil {
				return "", err
			}
			if o.Descending {
				q += " DESC"
			}
			keys[i] = q
		}
		fmt.Fprintf(&b, " ORDER BY %s", strings.Join(keys, ", "))
	}
	return b.String(), nil
}

func quoteQualified(name string) (string, error) {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		q, err := quoteIdent(p)
		if err != nil {
			return "", err
		}
		parts[i] = q
	}
	return strings.Join(parts, "."), nil
}

func quoteIdent(s string) (string, error) {
	if strings.TrimSpace(s) == "" || strings.ContainsRune(s, 0) {
		return "", fmt.Errorf("%w: %q", ErrIdentifier, s)
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`, nil
}
