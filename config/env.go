// env.go loads configuration from ~/.smartbi/config.json, a .env file
// and the process environment, in that order of increasing precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LookupFunc resolves an environment key. os.LookupEnv satisfies it.
type LookupFunc func(string) (string, bool)

// LoadDotEnv loads key=value pairs from path into the process
// environment without overriding variables that are already set. A
// missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Dir returns ~/.smartbi, creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(homeDir, ".smartbi")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

// LoadFile reads a JSON config file on top of the defaults. A missing
// file yields the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Load builds the final Config: base (usually from LoadFile) overridden by
// any keys lookup resolves. LLM_BASE_URL and LLM_MODEL must end up set.
func Load(base Config, lookup LookupFunc) (Config, error) {
	cfg := base
	cfg.SelectedMetrics = append([]string(nil), base.SelectedMetrics...)
	if lookup == nil {
		lookup = os.LookupEnv
	}
	env := envReader{lookup: lookup}

	env.str("LLM_PROVIDER", &cfg.LLM.Provider)
	env.str("LLM_BASE_URL", &cfg.LLM.BaseURL)
	env.str("LLM_MODEL", &cfg.LLM.Model)
	env.str("LLM_API_KEY", &cfg.LLM.APIKey)
	env.float("LLM_TEMPERATURE", &cfg.LLM.Temperature)

	env.str("DB_DRIVER", &cfg.DB.Driver)
	env.str("DB_HOST", &cfg.DB.Host)
	env.integer("DB_PORT", &cfg.DB.Port)
	env.str("DB_USER", &cfg.DB.User)
	env.str("DB_PASSWORD", &cfg.DB.Password)
	env.str("DB_NAME", &cfg.DB.Database)
	env.str("DB_SSLMODE", &cfg.DB.SSLMode)
	env.integer("DB_CONNECT_TIMEOUT", &cfg.DB.ConnectTimeout)
	env.integer("DB_READ_TIMEOUT", &cfg.DB.ReadTimeout)
	env.integer("DB_MAX_ROWS", &cfg.DB.MaxRows)

	env.boolean("SSH_ENABLED", &cfg.DB.SSH.Enabled)
	env.str("SSH_HOST", &cfg.DB.SSH.Host)
	env.integer("SSH_PORT", &cfg.DB.SSH.Port)
	env.str("SSH_USER", &cfg.DB.SSH.User)
	env.str("SSH_KEY_PATH", &cfg.DB.SSH.KeyPath)
	env.str("SSH_KEY_PASSPHRASE", &cfg.DB.SSH.KeyPassphrase)
	env.str("SSH_KNOWN_HOSTS", &cfg.DB.SSH.KnownHostsPath)

	if raw, ok := env.value("SELECTED_METRICS"); ok {
		cfg.SelectedMetrics = SplitList(raw)
	}
	if env.err != nil {
		return Config{}, env.err
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = DefaultAPIKey
	}
	if cfg.DB.Driver == "" {
		cfg.DB.Driver = DriverMySQL
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = DefaultPort(cfg.DB.Driver)
	}
	if cfg.DB.ConnectTimeout <= 0 {
		cfg.DB.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.DB.ReadTimeout <= 0 {
		cfg.DB.ReadTimeout = DefaultReadTimeout
	}
	if cfg.DB.MaxRows <= 0 {
		cfg.DB.MaxRows = DefaultMaxRows
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required settings.
func (c Config) Validate() error {
	if c.LLM.Provider != "placeholder" {
		if c.LLM.BaseURL == "" {
			return fmt.Errorf("missing required env var: LLM_BASE_URL")
		}
		if c.LLM.Model == "" {
			return fmt.Errorf("missing required env var: LLM_MODEL")
		}
	}
	switch c.DB.Driver {
	case DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", c.DB.Driver, DriverMySQL, DriverPostgres)
	}
	return nil
}

// SplitList splits a comma-separated list, dropping blank entries.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// envReader applies non-blank env values and remembers the first parse error.
type envReader struct {
	lookup LookupFunc
	err    error
}

func (e *envReader) value(key string) (string, bool) {
	raw, ok := e.lookup(key)
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.value(key); ok {
		*dst = v
	}
}

func (e *envReader) integer(key string, dst *int) {
	v, ok := e.value(key)
	if !ok || e.err != nil {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.err = fmt.Errorf("parse %s: %w", key, err)
		return
	}
	*dst = n
}

func (e *envReader) float(key string, dst *float64) {
	v, ok := e.value(key)
	if !ok || e.err != nil {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.err = fmt.Errorf("parse %s: %w", key, err)
		return
	}
	*dst = f
}

func (e *envReader) boolean(key string, dst *bool) {
	v, ok := e.value(key)
	if !ok || e.err != nil {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.err = fmt.Errorf("parse %s: %w", key, err)
		return
	}
	*dst = b
}
