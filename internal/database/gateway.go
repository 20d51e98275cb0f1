package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/sqlscan"
)

// Error kinds returned by the Gateway. Callers branch with errors.Is, so
// "zero rows" is never confused with "the statement failed".
var (
	// ErrUnavailable means no connection could be acquired.
	ErrUnavailable = errors.New("database unavailable")
	// ErrExecution means the statement itself failed.
	ErrExecution = errors.New("statement execution failed")
	// ErrNoRows is returned by Get when the query matched nothing.
	ErrNoRows = errors.New("no rows found")
)

// RowSet holds the result of a generic read: one map per row, with the
// result-set column order preserved alongside.
type RowSet struct {
	Columns []string
	Rows    []map[string]any
}

// Gateway runs parameterized statements against the store. Every call
// acquires its own connection and releases it before returning, so an
// insert and its follow-up identity fetch never race with other callers.
type Gateway struct {
	db *sql.DB
}

func NewGateway(db *sql.DB) *Gateway {
	return &Gateway{db: db}
}

func (g *Gateway) conn(ctx context.Context) (*sql.Conn, error) {
	conn, err := g.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return conn, nil
}

// Select runs a read statement and scans all rows into dest, which must
// be a pointer to a slice of structs with db tags.
func (g *Gateway) Select(ctx context.Context, dest any, query string, args ...any) error {
	conn, err := g.conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := sqlscan.Select(ctx, conn, dest, query, args...); err != nil {
		return fmt.Errorf("%w: %v", ErrExecution, err)
	}
	return nil
}

// Get runs a read statement expected to match a single row.
func (g *Gateway) Get(ctx context.Context, dest any, query string, args ...any) error {
	conn, err := g.conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := sqlscan.Get(ctx, conn, dest, query, args...); err != nil {
		if sqlscan.NotFound(err) {
			return ErrNoRows
		}
		return fmt.Errorf("%w: %v", ErrExecution, err)
	}
	return nil
}

// Rows runs a read statement and returns the raw rows as column-name
// mappings, for passthrough endpoints that serve the result unchanged.
func (g *Gateway) Rows(ctx context.Context, query string, args ...any) (*RowSet, error) {
	conn, err := g.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecution, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecution, err)
	}

	rs := &RowSet{Columns: cols, Rows: []map[string]any{}}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExecution, err)
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExecution, err)
	}

	return rs, nil
}

// Exec runs a mutation and returns the affected-row count.
func (g *Gateway) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	conn, err := g.conn(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExecution, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExecution, err)
	}
	return affected, nil
}

// ExecInsert runs an insert and fetches the generated identifier with a
// follow-up LASTVAL on the same connection.
func (g *Gateway) ExecInsert(ctx context.Context, query string, args ...any) (affected, id int64, err error) {
	conn, err := g.conn(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrExecution, err)
	}
	affected, err = res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrExecution, err)
	}

	if err := conn.QueryRowContext(ctx, "SELECT LASTVAL()").Scan(&id); err != nil {
		return affected, 0, fmt.Errorf("%w: %v", ErrExecution, err)
	}
	return affected, id, nil
}
