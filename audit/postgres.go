package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

// PostgresSink persists audit events to a PostgreSQL table.
type PostgresSink struct {
	*dispatcher
	db    *sql.DB
	table string
}

// NewPostgresSink opens a connection pool against connStr, creates the target
// table if needed and starts the delivery worker. The connection is verified
// with a ping so a dead database surfaces here, at startup, rather than on
// the request path.
func NewPostgresSink(connStr, table string, log *slog.Logger) (*PostgresSink, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &PostgresSink{db: db, table: table}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	s.dispatcher = newDispatcher(log, s.insert)
	return s, nil
}

func (s *PostgresSink) migrate() error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(36) PRIMARY KEY,
		ts TIMESTAMP WITH TIME ZONE NOT NULL,
		event VARCHAR(32) NOT NULL,
		method VARCHAR(16) NOT NULL,
		path VARCHAR(2048) NOT NULL,
		client_ip VARCHAR(64) NOT NULL,
		xff VARCHAR(512),
		host VARCHAR(256),
		user_agent VARCHAR(1024),
		referer VARCHAR(2048),
		status INTEGER NOT NULL,
		latency_ms BIGINT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_%s_ts ON %s(ts);
	CREATE INDEX IF NOT EXISTS idx_%s_client ON %s(client_ip);
	`, pq.QuoteIdentifier(s.table), s.table, pq.QuoteIdentifier(s.table), s.table, pq.QuoteIdentifier(s.table))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *PostgresSink) insert(ctx context.Context, ev Event) error {
	query := fmt.Sprintf(`
	INSERT INTO %s
		(id, ts, event, method, path, client_ip, xff, host, user_agent, referer, status, latency_ms)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id) DO NOTHING
	`, pq.QuoteIdentifier(s.table))

	_, err := s.db.ExecContext(ctx, query,
		ev.ID,
		ev.Timestamp,
		ev.Name,
		ev.Method,
		ev.Path,
		ev.ClientIP,
		ev.Forwarded,
		ev.Host,
		ev.UserAgent,
		ev.Referer,
		ev.Status,
		ev.LatencyMS,
	)
	return err
}

// Close stops the delivery worker and closes the connection pool. Queued
// events that have not been written yet are dropped.
func (s *PostgresSink) Close() error {
	s.stop()
	return s.db.Close()
}
