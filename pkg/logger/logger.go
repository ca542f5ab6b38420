// Package logger wraps a process-wide zap logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

// Init builds the global logger. format is "json" or "console".
func Init(level, format string, development bool) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if format != "" {
		cfg.Encoding = format
	}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	Set(l)
	return nil
}

// Set replaces the global logger (tests use zaptest/observer loggers).
func Set(l *zap.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
}

// L returns the global logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { L().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { L().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

func Fatal(msg string, fields ...zap.Field) { L().Fatal(msg, fields...) }

func Sync() {
	_ = L().Sync()
}
