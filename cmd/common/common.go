// Package common provides shared utilities for the gateway CLI commands.
//
// This package contains helpers used across the standalone binaries to
// reduce duplication:
//
//   - Environment-variable fallbacks for flag defaults
//   - Structured logger construction
//   - Audit sink construction with degrade-to-noop semantics
package common

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/technicalnoodles/captive-portal/audit"
)

// EnvOr returns the value of the environment variable, or def when it is
// unset or empty. Used for flag defaults so deployments can configure the
// gateway either way.
func EnvOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvBool interprets the environment variable as a boolean, defaulting to
// false when unset or unparseable.
func EnvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

// NewLogger builds the process logger. JSON output is for log shippers,
// text for humans.
func NewLogger(json bool) *slog.Logger {
	if json {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// OpenSink constructs the audit sink for the given connection string. A
// misconfigured or unreachable sink is logged and replaced with a NopSink:
// auditing is best-effort and must never prevent the gateway from starting.
func OpenSink(connStr, target string, log *slog.Logger) audit.Sink {
	sink, err := audit.Open(connStr, target, log)
	if err != nil {
		log.Error("audit sink unavailable, auditing disabled", "err", err)
		return audit.NopSink{}
	}
	if connStr != "" {
		log.Info("audit sink connected", "target", target)
	}
	return sink
}
