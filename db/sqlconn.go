package db

import (
	"context"
	"database/sql"
	"errors"
)

// sqlConn is a Conn over one database/sql connection. The *sql.DB behind
// it is private to this connection and closed with it.
type sqlConn struct {
	db      *sql.DB
	conn    *sql.Conn
	onClose func()
}

var _ Conn = (*sqlConn)(nil)

// newSQLConn pins a single connection from db. db is closed on failure.
func newSQLConn(ctx context.Context, db *sql.DB) (*sqlConn, error) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &sqlConn{db: db, conn: conn}, nil
}

func (c *sqlConn) Query(ctx context.Context, query string) ([]string, []map[string]any, error) {
	rows, err := c.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var result []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, result, nil
}

func (c *sqlConn) Close() error {
	err := errors.Join(c.conn.Close(), c.db.Close())
	if c.onClose != nil {
		c.onClose()
	}
	return err
}

// normalizeValue turns driver byte slices (text protocol) into strings.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
