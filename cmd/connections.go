package cmd

import (
	"fmt"
	"io"

	"github.com/DachengChen/smartbi/config"
	"github.com/spf13/cobra"
)

var newConn config.DBConfig

var connectionsCmd = &cobra.Command{
	Use:     "connections",
	Aliases: []string{"conn"},
	Short:   "Manage saved database connections",
}

var connectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved connections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		listConnections(cmd.OutOrStdout(), store)
		return nil
	},
}

var connectionsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Save or replace a connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := addConnection(store, args[0], newConn); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %q\n", args[0])
		return nil
	},
}

var connectionsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a saved connection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if !store.Delete(args[0]) {
			return fmt.Errorf("no saved connection named %q", args[0])
		}
		if err := store.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", args[0])
		return nil
	},
}

func init() {
	f := connectionsAddCmd.Flags()
	f.StringVar(&newConn.Driver, "driver", config.DriverMySQL, "mysql or postgres")
	f.StringVar(&newConn.Host, "host", "localhost", "database host")
	f.IntVar(&newConn.Port, "port", 0, "database port (default by driver)")
	f.StringVar(&newConn.User, "user", "", "database user")
	f.StringVar(&newConn.Password, "password", "", "database password")
	f.StringVar(&newConn.Database, "database", "", "database name")
	f.StringVar(&newConn.SSLMode, "sslmode", "disable", "postgres sslmode")
	f.BoolVar(&newConn.SSH.Enabled, "ssh", false, "connect through an SSH tunnel")
	f.StringVar(&newConn.SSH.Host, "ssh-host", "", "SSH bastion host")
	f.IntVar(&newConn.SSH.Port, "ssh-port", 22, "SSH port")
	f.StringVar(&newConn.SSH.User, "ssh-user", "", "SSH user")
	f.StringVar(&newConn.SSH.KeyPath, "ssh-key", "", "SSH private key path")
	f.StringVar(&newConn.SSH.KnownHostsPath, "ssh-known-hosts", "", "known_hosts file for host key checking")

	connectionsCmd.AddCommand(connectionsListCmd, connectionsAddCmd, connectionsDeleteCmd)
	rootCmd.AddCommand(connectionsCmd)
}

func openStore() (*config.ConnectionStore, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return config.NewConnectionStore(dir)
}

func listConnections(w io.Writer, store *config.ConnectionStore) {
	names := store.Names()
	if len(names) == 0 {
		fmt.Fprintln(w, "no saved connections")
		return
	}
	for _, name := range names {
		conn, _ := store.Get(name)
		fmt.Fprintf(w, "%-16s %s\n", name, describeDB(config.Config{DB: conn.DB}))
	}
}

func addConnection(store *config.ConnectionStore, name string, db config.DBConfig) error {
	switch db.Driver {
	case config.DriverMySQL, config.DriverPostgres:
	default:
		return fmt.Errorf("unsupported driver %q", db.Driver)
	}
	if db.Database == "" {
		return fmt.Errorf("--database is required")
	}
	if db.Port == 0 {
		db.Port = config.DefaultPort(db.Driver)
	}
	if db.ConnectTimeout == 0 {
		db.ConnectTimeout = config.DefaultConnectTimeout
	}
	if db.ReadTimeout == 0 {
		db.ReadTimeout = config.DefaultReadTimeout
	}
	if db.MaxRows == 0 {
		db.MaxRows = config.DefaultMaxRows
	}
	store.Add(config.Connection{Name: name, DB: db})
	return store.Save()
}
