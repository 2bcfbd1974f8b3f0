package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpen_EmptyConnStringIsNop(t *testing.T) {
	sink, err := Open("", "portal_requests", testLogger())
	require.NoError(t, err)
	require.IsType(t, NopSink{}, sink)
}

func TestOpen_UnknownScheme(t *testing.T) {
	_, err := Open("mongodb://localhost:27017", "portal_requests", testLogger())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported audit sink scheme")
}

func TestNopSink(t *testing.T) {
	var s NopSink
	s.Record(Event{Name: EventRequest})
	require.NoError(t, s.Close())
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()
	s.Record(Event{Name: EventRequest, ClientIP: "10.0.0.1"})
	s.Record(Event{Name: EventAccept, ClientIP: "10.0.0.1"})

	events := s.Events()
	require.Len(t, events, 2)
	require.Equal(t, EventRequest, events[0].Name)
	require.Equal(t, EventAccept, events[1].Name)

	// Events returns a copy; mutating it must not affect the sink.
	events[0].Name = "mutated"
	require.Equal(t, EventRequest, s.Events()[0].Name)
}

func TestDispatcher_DeliversEvents(t *testing.T) {
	var (
		mu      sync.Mutex
		written []Event
	)
	d := newDispatcher(testLogger(), func(ctx context.Context, ev Event) error {
		mu.Lock()
		written = append(written, ev)
		mu.Unlock()
		return nil
	})
	defer d.stop()

	d.Record(Event{ID: "a"})
	d.Record(Event{ID: "b"})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(written) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestDispatcher_WriteErrorsAreSwallowed(t *testing.T) {
	var calls sync.WaitGroup
	calls.Add(2)

	d := newDispatcher(testLogger(), func(ctx context.Context, ev Event) error {
		defer calls.Done()
		return errors.New("backend down")
	})
	defer d.stop()

	// Neither Record blocks nor panics when every write fails.
	d.Record(Event{ID: "a"})
	d.Record(Event{ID: "b"})
	calls.Wait()
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	block := make(chan struct{})
	d := newDispatcher(testLogger(), func(ctx context.Context, ev Event) error {
		<-block
		return nil
	})
	defer close(block)
	defer d.stop()

	// Saturate the queue plus the event the worker is holding; further
	// Records must return immediately instead of blocking the caller.
	done := make(chan struct{})
	go func() {
		for i := 0; i < queueDepth+10; i++ {
			d.Record(Event{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}
}
