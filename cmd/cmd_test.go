package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DachengChen/smartbi/chat"
	"github.com/DachengChen/smartbi/config"
	"github.com/DachengChen/smartbi/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExecutor struct {
	result  *db.QueryResult
	err     error
	sql     string
	maxRows int
	calls   int
}

func (e *recordingExecutor) Execute(_ context.Context, sql string, maxRows int) (*db.QueryResult, error) {
	e.calls++
	e.sql = sql
	e.maxRows = maxRows
	return e.result, e.err
}

func TestRunCheck(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		metrics []string
		want    []string
		wantErr bool
	}{
		{
			name: "safe select",
			sql:  "  select 1;  ",
			want: []string{"select:  select 1", "metrics: no metrics selected"},
		},
		{
			name:    "write rejected",
			sql:     "delete from t",
			want:    []string{"select:  rejected"},
			wantErr: true,
		},
		{
			name:    "metric used as column",
			sql:     "select o.gmv from orders o",
			metrics: []string{"orders.gmv"},
			want:    []string{"select:  select o.gmv from orders o", "references one of [gmv] as a column"},
			wantErr: true,
		},
		{
			name:    "metric guard passes",
			sql:     "select sum(o.amount) as gmv from orders o",
			metrics: []string{"orders.gmv"},
			want:    []string{"metrics: ok"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := runCheck(&buf, tt.sql, tt.metrics)
			if tt.wantErr {
				assert.ErrorIs(t, err, errCheckFailed)
			} else {
				assert.NoError(t, err)
			}
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestRunQueryPrintsTable(t *testing.T) {
	exec := &recordingExecutor{result: &db.QueryResult{
		Columns: []string{"region", "total"},
		Rows:    []map[string]any{{"region": "north", "total": 10}},
	}}
	var buf bytes.Buffer

	err := runQuery(context.Background(), &buf, exec, "select region, total from sales", 50, nil)
	require.NoError(t, err)
	assert.Equal(t, "select region, total from sales", exec.sql)
	assert.Equal(t, 50, exec.maxRows)
	assert.Contains(t, buf.String(), "north")
	assert.Contains(t, buf.String(), "(1 row)")
}

func TestRunQueryMetricGuardSkipsDatabase(t *testing.T) {
	exec := &recordingExecutor{}
	var buf bytes.Buffer

	err := runQuery(context.Background(), &buf, exec, "select t.gmv from orders t", 10, []string{"orders.gmv"})
	assert.ErrorIs(t, err, chat.ErrMetricColumnMisuse)
	assert.Zero(t, exec.calls)
	assert.Empty(t, buf.String())
}

func TestRunQueryPropagatesExecutorError(t *testing.T) {
	exec := &recordingExecutor{err: &db.ValidationError{SQL: "drop table t"}}
	err := runQuery(context.Background(), &bytes.Buffer{}, exec, "drop table t", 10, nil)
	assert.ErrorIs(t, err, db.ErrUnsafeSQL)
}

func TestValidateMaxRows(t *testing.T) {
	assert.NoError(t, validateMaxRows(1))
	assert.NoError(t, validateMaxRows(5000))
	assert.ErrorContains(t, validateMaxRows(0), "--max-rows must be positive, got 0")
	assert.ErrorContains(t, validateMaxRows(-3), "got -3")
}

func TestWithoutLLM(t *testing.T) {
	lookup := withoutLLM(func(key string) (string, bool) {
		if key == "DB_HOST" {
			return "db", true
		}
		return "", false
	})

	v, ok := lookup("LLM_PROVIDER")
	assert.True(t, ok)
	assert.Equal(t, "placeholder", v)
	v, ok = lookup("DB_HOST")
	assert.True(t, ok)
	assert.Equal(t, "db", v)
	_, ok = lookup("LLM_MODEL")
	assert.False(t, ok)
}

func TestDescribeDB(t *testing.T) {
	cfg := config.Config{DB: config.DBConfig{
		Driver: "postgres", User: "bi", Password: "secret", Host: "db.internal", Port: 5432, Database: "sales",
	}}
	assert.Equal(t, "postgres://bi@db.internal:5432/sales", describeDB(cfg))

	cfg.DB.SSH = config.SSHConfig{Enabled: true, User: "ops", Host: "bastion"}
	got := describeDB(cfg)
	assert.Contains(t, got, "via ssh ops@bastion")
	assert.NotContains(t, got, "secret")
}

func TestConnectionsAddListDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := config.NewConnectionStore(dir)
	require.NoError(t, err)

	require.NoError(t, addConnection(store, "prod", config.DBConfig{Driver: "postgres", Host: "db", User: "bi", Database: "sales"}))
	assert.Error(t, addConnection(store, "bad", config.DBConfig{Driver: "sqlite", Database: "x"}))
	assert.Error(t, addConnection(store, "nodb", config.DBConfig{Driver: "mysql"}))

	reloaded, err := config.NewConnectionStore(dir)
	require.NoError(t, err)
	conn, ok := reloaded.Get("prod")
	require.True(t, ok)
	assert.Equal(t, 5432, conn.DB.Port)
	assert.Equal(t, config.DefaultMaxRows, conn.DB.MaxRows)

	var buf bytes.Buffer
	listConnections(&buf, reloaded)
	assert.Contains(t, buf.String(), "prod")
	assert.Contains(t, buf.String(), "postgres://bi@db:5432/sales")

	assert.True(t, reloaded.Delete("prod"))
	buf.Reset()
	listConnections(&buf, reloaded)
	assert.Equal(t, "no saved connections\n", buf.String())
}

func setTestEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"LLM_PROVIDER", "LLM_BASE_URL", "LLM_MODEL", "LLM_API_KEY",
		"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "SELECTED_METRICS",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}

func TestLoadConfigUsesSavedConnection(t *testing.T) {
	home := setTestEnv(t)
	t.Setenv("LLM_BASE_URL", "http://llm/v1")
	t.Setenv("LLM_MODEL", "qwen")

	dir := filepath.Join(home, ".smartbi")
	require.NoError(t, os.MkdirAll(dir, 0700))
	store, err := config.NewConnectionStore(dir)
	require.NoError(t, err)
	require.NoError(t, addConnection(store, "warehouse", config.DBConfig{Driver: "postgres", Host: "wh", Database: "dw"}))

	cfg, err := loadConfig(filepath.Join(home, "missing.env"), "warehouse", false)
	require.NoError(t, err)
	assert.Equal(t, "wh", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.True(t, cfg.DBConfigured())

	_, err = loadConfig(filepath.Join(home, "missing.env"), "nope", false)
	assert.ErrorContains(t, err, `no saved connection named "nope"`)
}

func TestLoadConfigSkipLLM(t *testing.T) {
	home := setTestEnv(t)

	_, err := loadConfig(filepath.Join(home, "missing.env"), "", false)
	assert.ErrorContains(t, err, "LLM_BASE_URL")

	cfg, err := loadConfig(filepath.Join(home, "missing.env"), "", true)
	require.NoError(t, err)
	assert.Equal(t, "placeholder", cfg.LLM.Provider)
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	home := setTestEnv(t)
	envPath := filepath.Join(home, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("LLM_BASE_URL=http://from-file/v1\nLLM_MODEL=m\nDB_HOST=h\nDB_NAME=n\n"), 0600))
	t.Cleanup(func() {
		for _, k := range []string{"LLM_BASE_URL", "LLM_MODEL", "DB_HOST", "DB_NAME"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := loadConfig(envPath, "", false)
	require.NoError(t, err)
	assert.Equal(t, "http://from-file/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "h", cfg.DB.Host)
	assert.Equal(t, 3306, cfg.DB.Port)
}
