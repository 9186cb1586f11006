// connection.go opens database connections, optionally through an SSH
// tunnel.
//
// If SSH is enabled the tunnel is established first and the driver is
// pointed at the local endpoint. The tunnel is torn down when the
// connection closes.
package db

import (
	"context"
	"fmt"

	"github.com/DachengChen/smartbi/config"
	"github.com/DachengChen/smartbi/ssh"
)

// NewDialer returns the Dialer for driver.
func NewDialer(driver string) (Dialer, error) {
	switch driver {
	case config.DriverMySQL, "":
		return MySQLDialer{}, nil
	case config.DriverPostgres:
		return PostgresDialer{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// openTunnel starts an SSH tunnel when cfg asks for one and returns cfg
// rewritten to the local endpoint plus a function that stops the tunnel.
func openTunnel(ctx context.Context, cfg config.DBConfig) (config.DBConfig, func(), error) {
	if !cfg.SSH.Enabled {
		return cfg, func() {}, nil
	}

	tunnel, err := ssh.NewTunnel(cfg.SSH, cfg.Host, cfg.Port, cfg.ConnectTimeoutDuration())
	if err != nil {
		return cfg, nil, fmt.Errorf("ssh tunnel: %w", err)
	}
	localAddr, err := tunnel.Start(ctx)
	if err != nil {
		return cfg, nil, fmt.Errorf("ssh tunnel start: %w", err)
	}

	cfg.Host = localAddr.Host
	cfg.Port = localAddr.Port
	return cfg, tunnel.Stop, nil
}
