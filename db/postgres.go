package db

import (
	"context"
	"fmt"
	"time"

	"github.com/DachengChen/smartbi/config"
	pgx "github.com/jackc/pgx/v5"
)

// PostgresDialer connects with pgx.
type PostgresDialer struct{}

var _ Dialer = PostgresDialer{}

// Dial opens one PostgreSQL connection. pgx has no socket read timeout, so
// the read timeout is applied as a deadline on each query.
func (PostgresDialer) Dial(ctx context.Context, cfg config.DBConfig) (Conn, error) {
	target, stop, err := openTunnel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pgCfg, err := pgx.ParseConfig(target.PostgresDSN())
	if err != nil {
		stop()
		return nil, fmt.Errorf("pgx config: %w", err)
	}
	pgCfg.ConnectTimeout = cfg.ConnectTimeoutDuration()

	conn, err := pgx.ConnectConfig(ctx, pgCfg)
	if err != nil {
		stop()
		return nil, fmt.Errorf("pgx connect: %w", err)
	}
	return &pgConn{conn: conn, readTimeout: cfg.ReadTimeoutDuration(), onClose: stop}, nil
}

type pgConn struct {
	conn        *pgx.Conn
	readTimeout time.Duration
	onClose     func()
}

func (c *pgConn) Query(ctx context.Context, query string) ([]string, []map[string]any, error) {
	if c.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.readTimeout)
		defer cancel()
	}

	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var columns []string
	for _, fd := range rows.FieldDescriptions() {
		columns = append(columns, fd.Name)
	}

	var result []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, result, nil
}

func (c *pgConn) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := c.conn.Close(ctx)
	if c.onClose != nil {
		c.onClose()
	}
	return err
}
