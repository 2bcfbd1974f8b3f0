package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisSink appends audit events as JSON documents to a Redis list.
type RedisSink struct {
	*dispatcher
	client redis.UniversalClient
	key    string
}

// NewRedisSink connects to the Redis instance described by connStr
// (redis://... as understood by redis.ParseURL), verifies it with a ping and
// starts the delivery worker. Events are LPUSHed to the given list key.
func NewRedisSink(connStr, key string, log *slog.Logger) (*RedisSink, error) {
	opts, err := redis.ParseURL(connStr)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	s := &RedisSink{client: client, key: key}
	s.dispatcher = newDispatcher(log, s.push)
	return s, nil
}

func (s *RedisSink) push(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	if err := s.client.LPush(ctx, s.key, data).Err(); err != nil {
		return fmt.Errorf("pushing event: %w", err)
	}
	return nil
}

// Close stops the delivery worker and closes the client. Queued events are
// dropped.
func (s *RedisSink) Close() error {
	s.stop()
	return s.client.Close()
}
