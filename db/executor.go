// Package db runs guarded, read-only SQL against a relational database.
//
// Design decisions:
//   - Every Execute call opens exactly one connection, runs one statement
//     and closes the connection before returning, on every exit path.
//     There is no pooling and no state shared between calls.
//   - The database is reached through the Dialer/Conn port so the
//     executor can be tested without a driver. MySQL (go-sql-driver) and
//     PostgreSQL (pgx) adapters live next to it.
//   - Unsafe input is rejected before any network I/O.
package db

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/DachengChen/smartbi/config"
	"github.com/DachengChen/smartbi/sqlguard"
	"go.uber.org/zap"
)

// DefaultMaxRows caps result sets when the caller passes no limit.
const DefaultMaxRows = config.DefaultMaxRows

// QueryResult holds the output of one SELECT. Columns are empty when no
// rows came back. The executor never touches a result after returning it.
type QueryResult struct {
	Columns []string
	Rows    []map[string]any
}

// Conn is one open database connection.
type Conn interface {
	// Query runs a single statement and returns the column names in
	// select-list order together with every row keyed by column name.
	Query(ctx context.Context, query string) ([]string, []map[string]any, error)

	// Close releases the connection and anything opened with it.
	Close() error
}

// Dialer opens connections described by a DBConfig.
type Dialer interface {
	Dial(ctx context.Context, cfg config.DBConfig) (Conn, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, cfg config.DBConfig) (Conn, error)

// Dial implements Dialer.
func (f DialerFunc) Dial(ctx context.Context, cfg config.DBConfig) (Conn, error) {
	return f(ctx, cfg)
}

// Executor runs single SELECT statements with a row cap.
type Executor struct {
	cfg    config.DBConfig
	dialer Dialer
	logger *zap.Logger
}

// NewExecutor creates an Executor. cfg is copied and never modified.
func NewExecutor(cfg config.DBConfig, dialer Dialer, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		cfg:    cfg,
		dialer: dialer,
		logger: logger.Named("sql"),
	}
}

// Config returns the executor's database settings.
func (e *Executor) Config() config.DBConfig {
	return e.cfg
}

// Execute validates sql, appends a LIMIT when the statement has none, and
// runs it. A maxRows of zero or less means DefaultMaxRows.
//
// Rejected input returns a *ValidationError without opening a connection.
// Driver failures return an *ExecutionError. No partial results are
// returned.
func (e *Executor) Execute(ctx context.Context, sql string, maxRows int) (*QueryResult, error) {
	normalized, ok := sqlguard.NormalizeSingleSelect(sql)
	if !ok {
		e.logger.Info("rejected unsafe SQL", zap.String("sql", sql))
		return nil, &ValidationError{SQL: sql}
	}

	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	limited := WithRowLimit(normalized, maxRows)

	start := time.Now()
	conn, err := e.dialer.Dial(ctx, e.cfg)
	if err != nil {
		e.logger.Error("connect failed", zap.String("addr", e.cfg.Addr()), zap.Error(err))
		return nil, &ExecutionError{Op: "connect", Err: err}
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			e.logger.Warn("close connection", zap.Error(cerr))
		}
	}()

	columns, rows, err := conn.Query(ctx, limited)
	if err != nil {
		e.logger.Error("query failed",
			zap.String("sql", limited),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, &ExecutionError{Op: "query", Err: err}
	}

	e.logger.Info("query completed",
		zap.Int("rows", len(rows)),
		zap.Duration("elapsed", time.Since(start)))

	if len(rows) == 0 {
		return &QueryResult{Columns: []string{}, Rows: []map[string]any{}}, nil
	}
	return &QueryResult{Columns: columns, Rows: rows}, nil
}

// WithRowLimit appends "\nLIMIT maxRows" unless sql already contains a
// space-delimited limit keyword. An explicit LIMIT is never rewritten,
// even when it is larger than maxRows.
func WithRowLimit(sql string, maxRows int) string {
	if strings.Contains(strings.ToLower(sql), " limit ") {
		return sql
	}
	return sql + "\nLIMIT " + strconv.Itoa(maxRows)
}
