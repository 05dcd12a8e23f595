package logger_test

import (
	"errors"

	"github.com/wonny/labtrade/pkg/config"
	"github.com/wonny/labtrade/pkg/logger"
)

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	log := logger.New(&config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	})

	log.WithComponent("api").
		WithFields(map[string]interface{}{
			"owner":       "lab-001",
			"granularity": "month",
		}).
		Info("snapshot served")
}

// Example_withError demonstrates error logging
func Example_withError() {
	log := logger.New(&config.Config{
		Env:       "production",
		LogLevel:  "error",
		LogFormat: "json",
	})

	err := errors.New("document store timeout")
	log.WithError(err).
		WithField("retry_count", 3).
		Error("record fetch failed")
}
