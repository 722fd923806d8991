package util

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a LOG_LEVEL value ("debug", "info", "warn", "error") to a
// zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zap.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

func encoderConfig() zapcore.EncoderConfig {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return encoderCfg
}

func NewLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig = encoderConfig()
	return cfg.Build()
}

// NewLoggerWithFile creates a logger that writes to both console and a file
func NewLoggerWithFile(logPath string, level zapcore.Level) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	enc := zapcore.NewJSONEncoder(encoderConfig())
	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), level),
		zapcore.NewCore(enc.Clone(), zapcore.AddSync(file), level),
	)

	return zap.New(core), nil
}
