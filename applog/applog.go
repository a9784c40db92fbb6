// Package applog provides general-purpose application logging.
//
// Logs are written to ~/.datatalk/logs/app.log via zap. The TUI owns
// the terminal, so nothing here ever writes to stdout or stderr.
// Covers: app start/stop, config changes, connections, AI traffic.
package applog

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once   sync.Once
	logger *zap.SugaredLogger
)

// get lazily builds the file-backed logger. Falls back to a nop logger
// when the log directory cannot be created, so callers never need to
// check for nil.
func get() *zap.SugaredLogger {
	once.Do(func() {
		logger = zap.NewNop().Sugar()

		homeDir, err := os.UserHomeDir()
		if err != nil {
			return
		}
		logDir := filepath.Join(homeDir, ".datatalk", "logs")
		if err := os.MkdirAll(logDir, 0700); err != nil {
			return
		}
		f, err := os.OpenFile(filepath.Join(logDir, "app.log"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return
		}

		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(f),
			zapcore.InfoLevel,
		)
		logger = zap.New(core).Sugar()
	})
	return logger
}

// Info logs a general info message.
func Info(format string, args ...interface{}) {
	get().Infof(format, args...)
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	get().Errorf(format, args...)
}

// Event logs a structured event with a category.
func Event(category string, format string, args ...interface{}) {
	get().With("event", category).Infof(format, args...)
}

// AIRequest logs an outgoing AI call. Only counts and lengths are
// logged, never message content.
func AIRequest(provider string, messageCount int, system string) {
	get().With("event", "ai_request", "provider", provider,
		"messages", messageCount, "system_len", len(system)).
		Info("ai request")
}

// AIResponse logs the outcome of an AI call.
func AIResponse(provider string, responseLen int, err error) {
	l := get().With("event", "ai_response", "provider", provider,
		"response_len", responseLen)
	if err != nil {
		l.Errorf("ai response error: %v", err)
		return
	}
	l.Info("ai response")
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	_ = get().Sync()
}
