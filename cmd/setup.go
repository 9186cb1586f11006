package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DachengChen/smartbi/applog"
	"github.com/DachengChen/smartbi/config"
	"github.com/DachengChen/smartbi/db"
)

// loadConfig layers ~/.smartbi/config.json, a saved connection, the
// dotenv file and the process environment. With skipLLM the LLM settings
// are not required.
func loadConfig(envPath, connName string, skipLLM bool) (config.Config, error) {
	if err := config.LoadDotEnv(envPath); err != nil {
		return config.Config{}, err
	}

	dir, err := config.Dir()
	if err != nil {
		return config.Config{}, fmt.Errorf("config dir: %w", err)
	}
	base, err := config.LoadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		return config.Config{}, err
	}

	if connName != "" {
		store, err := config.NewConnectionStore(dir)
		if err != nil {
			return config.Config{}, err
		}
		conn, ok := store.Get(connName)
		if !ok {
			return config.Config{}, fmt.Errorf("no saved connection named %q", connName)
		}
		base.DB = conn.DB
	}

	lookup := config.LookupFunc(os.LookupEnv)
	if skipLLM {
		lookup = withoutLLM(lookup)
	}
	return config.Load(base, lookup)
}

// withoutLLM forces the placeholder provider so commands that never call
// the model do not need LLM_BASE_URL and LLM_MODEL.
func withoutLLM(lookup config.LookupFunc) config.LookupFunc {
	return func(key string) (string, bool) {
		if key == "LLM_PROVIDER" {
			return "placeholder", true
		}
		return lookup(key)
	}
}

func newExecutor(cfg config.Config) (*db.Executor, error) {
	dialer, err := db.NewDialer(cfg.DB.Driver)
	if err != nil {
		return nil, err
	}
	return db.NewExecutor(cfg.DB, dialer, applog.Logger()), nil
}

// describeDB renders driver://user@host:port/database without secrets.
func describeDB(cfg config.Config) string {
	d := cfg.DB
	s := fmt.Sprintf("%s://%s@%s/%s", d.Driver, d.User, d.Addr(), d.Database)
	if d.SSH.Enabled {
		s += fmt.Sprintf(" (via ssh %s@%s)", d.SSH.User, d.SSH.Host)
	}
	return s
}
