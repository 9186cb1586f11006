// Package applog provides general-purpose application logging.
//
// Logs are written to ~/.smartbi/logs/app.log through a zap core with a
// console encoder. Covers: app start/stop, config loading, LLM calls,
// SQL checks and executions.
//
// The TUI owns stdout, so nothing here ever writes to the terminal. If the
// log file cannot be opened, logging silently becomes a no-op.
package applog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	once   sync.Once
	logger = zap.NewNop()
	sugar  = logger.Sugar()

	mu    sync.Mutex
	sinks []*os.File
)

func initLogger() {
	once.Do(func() {
		if l, f, err := NewFileLogger("app.log"); err == nil {
			logger = l
			sugar = l.Sugar()
			Track(f)
		}
	})
}

// Dir returns the log directory, creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	logDir := filepath.Join(homeDir, ".smartbi", "logs")
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return "", err
	}
	return logDir, nil
}

// NewFileLogger opens (or creates) name inside the log directory and
// returns a zap logger appending to it. The caller owns the file.
func NewFileLogger(name string) (*zap.Logger, *os.File, error) {
	logDir, err := Dir()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, err
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(f), zapcore.DebugLevel)
	return zap.New(core), f, nil
}

// Logger returns the structured application logger.
func Logger() *zap.Logger {
	initLogger()
	return logger
}

// Info logs a general info message.
func Info(format string, args ...interface{}) {
	initLogger()
	sugar.Infof(format, args...)
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	initLogger()
	sugar.Errorf(format, args...)
}

// Event logs a message under a category (e.g. "sql", "chat").
func Event(category string, format string, args ...interface{}) {
	initLogger()
	sugar.Infow(fmt.Sprintf(format, args...), "category", category)
}

// Track registers an extra log file to be closed by Close.
func Track(f *os.File) {
	if f == nil {
		return
	}
	mu.Lock()
	sinks = append(sinks, f)
	mu.Unlock()
}

// Close flushes and closes all log files.
func Close() {
	_ = sugar.Sync()
	mu.Lock()
	defer mu.Unlock()
	for _, f := range sinks {
		f.Close()
	}
	sinks = nil
}
