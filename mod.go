// Package tally defines the logger and the metrics collectors shared by every
// package of the module.
package tally

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// EnvLogLevel is the environment variable that sets the level of the logger:
// trace, debug, info, warn, error or disabled.
const EnvLogLevel = "TALLY_LOG_LEVEL"

// The standard output is kept for the responses of the commands.
var logout = zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.RFC3339,
}

// Logger is a globally available logger instance.
var Logger = zerolog.New(logout).
	With().Timestamp().Logger().
	With().Caller().Logger().
	Level(levelOf(os.Getenv(EnvLogLevel)))

// PromCollectors exposes the Prometheus collectors created by the packages of
// the module. A package appends its collectors at init time and the proxy
// registers them when the metrics endpoint is served.
var PromCollectors []prometheus.Collector

// levelOf parses the level and falls back to info when it is empty or
// unknown.
func levelOf(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(value)
	if err != nil || value == "" {
		return zerolog.InfoLevel
	}

	return lvl
}
