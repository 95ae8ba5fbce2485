// Package logger holds the process-wide zap logger.
package logger

import "go.uber.org/zap"

var base = zap.NewNop()

// Init builds the process logger. Development mode uses zap's console
// encoding; anything else gets production JSON output.
func Init(mode string) error {
	var (
		l   *zap.Logger
		err error
	)
	if mode == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	base = l
	return nil
}

// Base returns the process logger. Before Init it is a no-op logger, so
// packages can log unconditionally.
func Base() *zap.Logger {
	return base
}

// Sync flushes buffered log entries.
func Sync() {
	_ = base.Sync()
}
