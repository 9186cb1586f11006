// Package config defines the application configuration structures.
//
// Separated from cmd to allow other packages (db, ssh, ai, tui) to
// depend on config without importing Cobra. A Config is built once at
// startup and never mutated afterwards.
package config

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Database drivers understood by the db package.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Defaults applied before any file or environment override.
const (
	DefaultConnectTimeout = 5  // seconds
	DefaultReadTimeout    = 30 // seconds
	DefaultMaxRows        = 1000
	DefaultTemperature    = 0.2
	DefaultAPIKey         = "empty"
)

// Config holds all application settings.
type Config struct {
	LLM LLMConfig `json:"llm"`
	DB  DBConfig  `json:"db"`

	// SelectedMetrics are canonical `table.metric` names fed to the
	// metric-reference guard before running proposed SQL.
	SelectedMetrics []string `json:"selected_metrics,omitempty"`
}

// LLMConfig holds the chat-completions endpoint settings.
type LLMConfig struct {
	Provider    string  `json:"provider"` // "openai" or "placeholder"
	BaseURL     string  `json:"base_url"`
	Model       string  `json:"model"`
	APIKey      string  `json:"api_key,omitempty"`
	Temperature float64 `json:"temperature"`
}

// DBConfig holds the read-only query target. Timeouts are in seconds.
type DBConfig struct {
	Driver         string `json:"driver"` // "mysql" or "postgres"
	Host           string `json:"host"`
	Port           int    `json:"port"`
	User           string `json:"user"`
	Password       string `json:"password,omitempty"`
	Database       string `json:"database"`
	SSLMode        string `json:"ssl_mode,omitempty"`
	ConnectTimeout int    `json:"connect_timeout"`
	ReadTimeout    int    `json:"read_timeout"`
	MaxRows        int    `json:"max_rows"`

	SSH SSHConfig `json:"ssh,omitempty"`
}

// SSHConfig holds SSH tunnel settings.
type SSHConfig struct {
	Enabled       bool   `json:"enabled,omitempty"`
	Host          string `json:"host,omitempty"`
	Port          int    `json:"port,omitempty"`
	User          string `json:"user,omitempty"`
	KeyPath       string `json:"key_path,omitempty"`
	KeyPassphrase string `json:"key_passphrase,omitempty"`

	// KnownHostsPath enables host key verification when set.
	KnownHostsPath string `json:"known_hosts_path,omitempty"`
}

// Default returns a Config with every default filled in.
func Default() Config {
	return Config{
		LLM: LLMConfig{
			Provider:    "openai",
			APIKey:      DefaultAPIKey,
			Temperature: DefaultTemperature,
		},
		DB: DBConfig{
			Driver:         DriverMySQL,
			Host:           "localhost",
			SSLMode:        "disable",
			ConnectTimeout: DefaultConnectTimeout,
			ReadTimeout:    DefaultReadTimeout,
			MaxRows:        DefaultMaxRows,
			SSH:            SSHConfig{Port: 22},
		},
	}
}

// DefaultPort returns the standard port for driver.
func DefaultPort(driver string) int {
	if driver == DriverPostgres {
		return 5432
	}
	return 3306
}

// DBConfigured reports whether enough database settings are present to
// attempt a connection.
func (c Config) DBConfigured() bool {
	return c.DB.Host != "" && c.DB.Database != ""
}

// Addr returns host:port of the database.
func (d DBConfig) Addr() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// ConnectTimeoutDuration returns the connect timeout as a Duration.
func (d DBConfig) ConnectTimeoutDuration() time.Duration {
	return time.Duration(d.ConnectTimeout) * time.Second
}

// ReadTimeoutDuration returns the read timeout as a Duration.
func (d DBConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(d.ReadTimeout) * time.Second
}

// PostgresDSN builds a pgx-compatible keyword/value connection string.
// Every value is single-quoted so empty values and values with spaces
// survive parsing. When an SSH tunnel is active, the caller should
// override Host/Port with the local tunnel endpoint.
func (d DBConfig) PostgresDSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	pairs := []struct{ key, value string }{
		{"host", d.Host},
		{"port", strconv.Itoa(d.Port)},
		{"user", d.User},
		{"password", d.Password},
		{"dbname", d.Database},
		{"sslmode", sslMode},
		{"connect_timeout", strconv.Itoa(d.ConnectTimeout)},
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.key + "=" + quoteDSNValue(p.value)
	}
	return strings.Join(parts, " ")
}

// quoteDSNValue quotes v for a libpq keyword/value string.
func quoteDSNValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
