package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/technicalnoodles/captive-portal/metrics"
)

const (
	queueDepth   = 256
	writeTimeout = 3 * time.Second
)

// dispatcher decouples Record callers from the backing store. Events are
// handed to a single worker goroutine through a buffered channel; when the
// channel is full the event is dropped rather than making the caller wait.
type dispatcher struct {
	log    *slog.Logger
	events chan Event
	done   chan struct{}
	once   sync.Once

	write func(ctx context.Context, ev Event) error
}

func newDispatcher(log *slog.Logger, write func(ctx context.Context, ev Event) error) *dispatcher {
	d := &dispatcher{
		log:    log,
		events: make(chan Event, queueDepth),
		done:   make(chan struct{}),
		write:  write,
	}
	go d.run()
	return d
}

func (d *dispatcher) Record(ev Event) {
	select {
	case d.events <- ev:
	default:
		metrics.AuditEventsDropped.Inc()
	}
}

func (d *dispatcher) run() {
	for {
		select {
		case ev := <-d.events:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			if err := d.write(ctx, ev); err != nil {
				// Best-effort delivery: the failure is logged and the
				// event discarded, never retried.
				d.log.Debug("audit write failed", "err", err)
				metrics.AuditEventsDropped.Inc()
			}
			cancel()
		case <-d.done:
			return
		}
	}
}

func (d *dispatcher) stop() {
	d.once.Do(func() { close(d.done) })
}
