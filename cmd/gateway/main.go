// Command gateway runs the captive-portal network gateway.
//
// The gateway answers the RFC 8908 discovery probe, serves the acceptance
// page, and records which clients have accepted the terms so later probes
// report them as no longer captive. Acceptance state is in-memory and lives
// until the process exits.
//
// # Usage
//
//	go run ./cmd/gateway --listen-addr=:8000 --doc-root=/srv/portal
//
// # Auditing
//
// Request auditing is optional and best-effort. Point --audit-url at a
// PostgreSQL (postgres://...) or Redis (redis://...) instance to persist
// per-request event records; an unreachable sink is logged and ignored.
package main

import (
	"flag"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/technicalnoodles/captive-portal/api/httpserver"
	"github.com/technicalnoodles/captive-portal/audit"
	cmdcommon "github.com/technicalnoodles/captive-portal/cmd/common"
	"github.com/technicalnoodles/captive-portal/portal"
	"github.com/technicalnoodles/captive-portal/registry"
)

func main() {
	var (
		listenAddr  = flag.String("listen-addr", cmdcommon.EnvOr("LISTEN_ADDR", ":8000"), "HTTP listen address")
		metricsAddr = flag.String("metrics-addr", cmdcommon.EnvOr("METRICS_ADDR", ""), "Prometheus metrics listen address (empty disables)")
		docRoot     = flag.String("doc-root", cmdcommon.EnvOr("DOC_ROOT", "."), "Document root for the portal page and static files")
		trustProxy  = flag.Bool("trust-proxy", cmdcommon.EnvBool("TRUST_PROXY"), "Derive client identity from the first X-Forwarded-For hop (only behind a trusted reverse proxy)")
		auditURL    = flag.String("audit-url", cmdcommon.EnvOr("AUDIT_URL", ""), "Audit sink connection string (postgres:// or redis://, empty disables)")
		auditTable  = flag.String("audit-table", cmdcommon.EnvOr("AUDIT_TABLE", audit.DefaultTarget), "Audit table or list key name")
		logJSON     = flag.Bool("log-json", false, "Log in JSON format")
		enablePprof = flag.Bool("pprof", false, "Enable the pprof debugging API")
	)
	flag.Parse()

	log := cmdcommon.NewLogger(*logJSON)

	sink := cmdcommon.OpenSink(*auditURL, *auditTable, log)
	defer sink.Close()

	handler := portal.NewHandler(&portal.Config{
		PortalFile:   filepath.Join(*docRoot, "index.html"),
		DocRoot:      *docRoot,
		TrustProxy:   *trustProxy,
		FallbackPort: listenPort(*listenAddr),
		Log:          log,
	}, registry.New(), sink)

	srv, err := httpserver.New(&httpserver.HTTPServerConfig{
		ListenAddr:               *listenAddr,
		MetricsAddr:              *metricsAddr,
		EnablePprof:              *enablePprof,
		Log:                      log,
		DrainDuration:            5 * time.Second,
		GracefulShutdownDuration: 10 * time.Second,
		ReadTimeout:              15 * time.Second,
		WriteTimeout:             15 * time.Second,
	}, handler)
	if err != nil {
		log.Error("Failed to create server", "err", err)
		os.Exit(1)
	}

	srv.RunInBackground()
	log.Info("Captive portal gateway running",
		"listenAddress", *listenAddr,
		"api", portal.APIPath,
		"portal", portal.PortalPath,
		"accept", portal.AcceptPath,
		"trustProxy", *trustProxy,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down gateway")
	srv.Shutdown()
}

// listenPort extracts the port from the listen address for use in portal URL
// fallbacks. Defaults to 8000 when the address carries no port.
func listenPort(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		return "8000"
	}
	return port
}
