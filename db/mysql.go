package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DachengChen/smartbi/config"
	"github.com/go-sql-driver/mysql"
)

// MySQLDialer connects with go-sql-driver/mysql.
type MySQLDialer struct{}

var _ Dialer = MySQLDialer{}

// Dial opens one MySQL connection honouring the connect and read timeouts.
func (MySQLDialer) Dial(ctx context.Context, cfg config.DBConfig) (Conn, error) {
	target, stop, err := openTunnel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	connector, err := mysql.NewConnector(mysqlConfig(target))
	if err != nil {
		stop()
		return nil, fmt.Errorf("mysql config: %w", err)
	}

	conn, err := newSQLConn(ctx, sql.OpenDB(connector))
	if err != nil {
		stop()
		return nil, fmt.Errorf("mysql connect %s: %w", cfg.Addr(), err)
	}
	conn.onClose = stop
	return conn, nil
}

func mysqlConfig(cfg config.DBConfig) *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = cfg.Addr()
	mc.DBName = cfg.Database
	mc.Timeout = cfg.ConnectTimeoutDuration()
	mc.ReadTimeout = cfg.ReadTimeoutDuration()
	mc.MultiStatements = false
	return mc
}
