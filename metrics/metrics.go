// Package metrics exposes Prometheus metrics for the captive-portal gateway
// and a small HTTP server to scrape them from.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ProbeRequests counts RFC 8908 discovery probes, partitioned by the
	// captive verdict returned to the client.
	ProbeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "captive_portal_probe_requests_total",
		Help: "Discovery probes served, by captive verdict.",
	}, []string{"captive"})

	// Accepts counts POST /accept requests, including repeats from
	// already-accepted clients.
	Accepts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "captive_portal_accepts_total",
		Help: "Acceptance requests handled.",
	})

	// AcceptedClients tracks the current size of the acceptance registry.
	AcceptedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "captive_portal_accepted_clients",
		Help: "Client identities currently recorded as accepted.",
	})

	// AuditEventsDropped counts audit events discarded because the sink
	// queue was full or a write failed.
	AuditEventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "captive_portal_audit_events_dropped_total",
		Help: "Audit events dropped instead of delivered.",
	})
)

// MetricsServer serves the Prometheus scrape endpoint on its own listener so
// metrics traffic never mixes with portal traffic.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server for the given listen address. An empty addr is
// allowed; the returned server then does nothing when started.
func New(name, addr string) (*MetricsServer, error) {
	if addr == "" {
		return &MetricsServer{}, nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}, nil
}

// ListenAndServe blocks serving scrape requests until Shutdown is called.
func (m *MetricsServer) ListenAndServe() error {
	if m.srv == nil {
		return nil
	}
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	if m.srv == nil {
		return nil
	}
	return m.srv.Shutdown(ctx)
}
