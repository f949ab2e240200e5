// Package logging builds the process logger: structured JSON appended to a
// persistent log file, teed with a human-readable console stream.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger writing JSON entries to path and console entries to
// stderr, plus a flush func for process exit. An empty path yields a
// console-only logger.
func New(path string) (*zap.Logger, func(), error) {
	consoleEnc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	consoleCore := zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stderr), zapcore.InfoLevel)

	if path == "" {
		logger := zap.New(consoleCore)
		return logger, func() { _ = logger.Sync() }, nil
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	fileEnc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	fileCore := zapcore.NewCore(fileEnc, zapcore.Lock(file), zapcore.InfoLevel)

	logger := zap.New(zapcore.NewTee(fileCore, consoleCore))
	flush := func() {
		_ = logger.Sync()
		_ = file.Close()
	}
	return logger, flush, nil
}

// Console returns a console-only logger for fallback paths.
func Console() *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zapcore.InfoLevel))
}
