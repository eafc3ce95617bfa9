// Package logger provides structured logging using Zap.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar *zap.SugaredLogger
)

// Init builds the global logger for the given environment and level.
// "production" uses the JSON encoder; anything else uses the console encoder.
// An unknown level falls back to info in production and debug elsewhere.
func Init(env, level string) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if lvl, err := zapcore.ParseLevel(level); err == nil && level != "" {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	base, err := cfg.Build()
	if err != nil {
		base = zap.NewNop()
	}

	mu.Lock()
	sugar = base.Sugar().With("service", "fintrack")
	mu.Unlock()
}

// Get returns the global sugared logger, initializing a development logger
// on first use.
func Get() *zap.SugaredLogger {
	mu.RLock()
	l := sugar
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if sugar == nil {
		base, err := zap.NewDevelopment()
		if err != nil {
			base = zap.NewNop()
		}
		sugar = base.Sugar()
	}
	return sugar
}

// Set replaces the global logger and returns a function restoring the previous one.
func Set(l *zap.SugaredLogger) (restore func()) {
	mu.Lock()
	prev := sugar
	sugar = l
	mu.Unlock()

	return func() {
		mu.Lock()
		sugar = prev
		mu.Unlock()
	}
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	mu.RLock()
	l := sugar
	mu.RUnlock()
	if l != nil {
		_ = l.Sync()
	}
}
