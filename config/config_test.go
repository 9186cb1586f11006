package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(Default(), mapLookup(map[string]string{
		"LLM_BASE_URL": "http://localhost:8000/v1",
		"LLM_MODEL":    "qwen",
	}))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, DefaultAPIKey, cfg.LLM.APIKey)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, DriverMySQL, cfg.DB.Driver)
	assert.Equal(t, 3306, cfg.DB.Port)
	assert.Equal(t, 5, cfg.DB.ConnectTimeout)
	assert.Equal(t, 30, cfg.DB.ReadTimeout)
	assert.Equal(t, 1000, cfg.DB.MaxRows)
	assert.False(t, cfg.DB.SSH.Enabled)
}

func TestLoadRequiresLLMSettings(t *testing.T) {
	_, err := Load(Default(), mapLookup(map[string]string{"LLM_MODEL": "m"}))
	require.EqualError(t, err, "missing required env var: LLM_BASE_URL")

	_, err = Load(Default(), mapLookup(map[string]string{"LLM_BASE_URL": "http://x", "LLM_MODEL": "   "}))
	require.EqualError(t, err, "missing required env var: LLM_MODEL")
}

func TestLoadPlaceholderNeedsNoEndpoint(t *testing.T) {
	cfg, err := Load(Default(), mapLookup(map[string]string{"LLM_PROVIDER": "placeholder"}))
	require.NoError(t, err)
	assert.Equal(t, "placeholder", cfg.LLM.Provider)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	cfg, err := Load(Default(), mapLookup(map[string]string{
		"LLM_BASE_URL":       "http://llm",
		"LLM_MODEL":          "m",
		"LLM_API_KEY":        " ",
		"LLM_TEMPERATURE":    "0.7",
		"DB_DRIVER":          "postgres",
		"DB_HOST":            "db.internal",
		"DB_USER":            "reader",
		"DB_PASSWORD":        "secret",
		"DB_NAME":            "bi",
		"DB_CONNECT_TIMEOUT": "3",
		"DB_READ_TIMEOUT":    "60",
		"DB_MAX_ROWS":        "50",
		"SSH_ENABLED":        "true",
		"SSH_HOST":           "bastion",
		"SSH_USER":           "ops",
		"SELECTED_METRICS":   "deposit.end_balance, ,loan.amount",
	}))
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIKey, cfg.LLM.APIKey)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "db.internal:5432", cfg.DB.Addr())
	assert.Equal(t, 3, cfg.DB.ConnectTimeout)
	assert.Equal(t, 60, cfg.DB.ReadTimeout)
	assert.Equal(t, 50, cfg.DB.MaxRows)
	assert.True(t, cfg.DB.SSH.Enabled)
	assert.Equal(t, 22, cfg.DB.SSH.Port)
	assert.Equal(t, []string{"deposit.end_balance", "loan.amount"}, cfg.SelectedMetrics)
	assert.True(t, cfg.DBConfigured())
}

func TestLoadRejectsBadValues(t *testing.T) {
	base := map[string]string{"LLM_BASE_URL": "http://llm", "LLM_MODEL": "m"}

	bad := map[string]string{"DB_PORT": "abc"}
	for k, v := range base {
		bad[k] = v
	}
	_, err := Load(Default(), mapLookup(bad))
	require.ErrorContains(t, err, "parse DB_PORT")

	bad = map[string]string{"DB_DRIVER": "oracle"}
	for k, v := range base {
		bad[k] = v
	}
	_, err = Load(Default(), mapLookup(bad))
	require.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadFile(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"llm":{"base_url":"http://file","model":"fm"},"db":{"host":"h","database":"d"}}`), 0600))
	cfg, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://file", cfg.LLM.BaseURL)
	assert.Equal(t, DefaultReadTimeout, cfg.DB.ReadTimeout)

	// Env wins over file.
	cfg, err = Load(cfg, mapLookup(map[string]string{"LLM_MODEL": "env-model"}))
	require.NoError(t, err)
	assert.Equal(t, "env-model", cfg.LLM.Model)
	assert.Equal(t, "http://file", cfg.LLM.BaseURL)

	require.NoError(t, os.WriteFile(path, []byte(`{`), 0600))
	_, err = LoadFile(path)
	require.Error(t, err)
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SMARTBI_TEST_A=from-file\nSMARTBI_TEST_B=from-file\n"), 0600))
	t.Setenv("SMARTBI_TEST_A", "from-env")
	t.Setenv("SMARTBI_TEST_B", "")
	require.NoError(t, os.Unsetenv("SMARTBI_TEST_B"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv("SMARTBI_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("SMARTBI_TEST_B"))

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestPostgresDSN(t *testing.T) {
	d := DBConfig{Host: "h", Port: 5432, User: "u", Password: "p", Database: "d", ConnectTimeout: 5}
	assert.Equal(t, "host='h' port='5432' user='u' password='p' dbname='d' sslmode='disable' connect_timeout='5'", d.PostgresDSN())

	d.Password = `it's a\b`
	assert.Contains(t, d.PostgresDSN(), `password='it\'s a\\b'`)
}

func TestConnectionStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConnectionStore(dir)
	require.NoError(t, err)
	assert.Empty(t, store.Names())

	store.Add(Connection{Name: "prod", DB: DBConfig{Host: "a"}})
	store.Add(Connection{Name: "dev", DB: DBConfig{Host: "b"}})
	store.Add(Connection{Name: "prod", DB: DBConfig{Host: "c"}})
	require.NoError(t, store.Save())

	reloaded, err := NewConnectionStore(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "prod"}, reloaded.Names())
	conn, ok := reloaded.Get("prod")
	require.True(t, ok)
	assert.Equal(t, "c", conn.DB.Host)

	assert.True(t, reloaded.Delete("dev"))
	assert.False(t, reloaded.Delete("dev"))
	_, ok = reloaded.Get("dev")
	assert.False(t, ok)
}
