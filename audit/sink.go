package audit

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Sink receives audit events. Implementations must make Record non-blocking:
// the HTTP handlers call it on the request path and must never wait on it.
type Sink interface {
	// Record submits an event for delivery. Delivery is at-most-once; the
	// event is silently dropped if the sink cannot keep up or has failed.
	Record(Event)

	// Close flushes nothing (delivery is best-effort) but releases any
	// connections held by the sink.
	Close() error
}

// NopSink discards all events. It is the default when no audit store is
// configured.
type NopSink struct{}

func (NopSink) Record(Event) {}
func (NopSink) Close() error { return nil }

// Open creates a sink for the given connection string. The backend is chosen
// by URL scheme: postgres:// and postgresql:// select PostgreSQL, redis://
// and rediss:// select Redis. An empty connection string yields a NopSink.
//
// target names the table (PostgreSQL) or list key (Redis) events are written
// to; when empty, DefaultTarget is used.
func Open(connStr, target string, log *slog.Logger) (Sink, error) {
	if connStr == "" {
		return NopSink{}, nil
	}
	if target == "" {
		target = DefaultTarget
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return nil, fmt.Errorf("parsing audit connection string: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return NewPostgresSink(connStr, target, log)
	case "redis", "rediss":
		return NewRedisSink(connStr, target, log)
	default:
		return nil, fmt.Errorf("unsupported audit sink scheme %q", u.Scheme)
	}
}

// DefaultTarget is the table or key name used when none is configured,
// matching the historical deployment default.
const DefaultTarget = "portal_requests"
