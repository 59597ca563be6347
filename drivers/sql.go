package drivers

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sheenazien8/lazydb/logger"
	"github.com/xo/dburl"
)

// openSQL opens urlstr through dburl and pings it.
func openSQL(ctx context.Context, urlstr string) (*sql.DB, error) {
	conn, err := dburl.Open(urlstr)
	if err != nil {
		return nil, wrapErr(KindConfig, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, wrapErr(KindConnection, err)
	}
	return conn, nil
}

// runQuery executes a raw statement and materializes every row as strings.
func runQuery(ctx context.Context, db *sql.DB, query string) (QueryResult, error) {
	logger.Debug("Executing raw query", map[string]any{
		"query": query,
	})

	start := time.Now()
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return QueryResult{}, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	columns, data, err := scanRows(rows)
	if err != nil {
		return QueryResult{}, wrapErr(KindQuery, err)
	}

	return QueryResult{
		Columns:         columns,
		Rows:            data,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
		TotalRows:       len(data),
	}, nil
}

func scanRows(rows *sql.Rows) ([]string, [][]string, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var data [][]string
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range columns {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, nil, err
		}

		row := make([]string, len(columns))
		for i, val := range values {
			row[i] = formatSQLValue(val)
		}
		data = append(data, row)
	}

	return columns, data, rows.Err()
}

// queryStrings collects the first column of every row.
func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(KindQuery, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, wrapErr(KindQuery, err)
		}
		out = append(out, s)
	}
	return out, wrapErr(KindQuery, rows.Err())
}

func formatSQLValue(val any) string {
	if val == nil {
		return "NULL"
	}

	switch v := val.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// quoteIdentifier quotes a name with double quotes, doubling embedded ones.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// splitColumns splits a comma separated column list, ignoring commas in parens.
func splitColumns(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		out = append(out, tail)
	}
	return out
}
