package portal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/technicalnoodles/captive-portal/audit"
	"github.com/technicalnoodles/captive-portal/metrics"
	"github.com/technicalnoodles/captive-portal/registry"
)

// Well-known paths of the portal surface. These are fixed by the protocol
// (the API path is the RFC 8908 recommended well-known URI) and by client
// expectations, not configurable.
const (
	APIPath    = "/.well-known/captive-portal"
	PortalPath = "/portal"
	AcceptPath = "/accept"
)

// CaptiveJSONType is the media type mandated by RFC 8908 for the discovery
// response.
const CaptiveJSONType = "application/captive+json"

// CaptiveState is the discovery response body: exactly the two keys the
// protocol defines.
type CaptiveState struct {
	Captive       bool   `json:"captive"`
	UserPortalURL string `json:"user-portal-url"`
}

// Config carries the deployment-time settings of the portal handler.
type Config struct {
	// PortalFile is the on-disk HTML page served at /portal.
	PortalFile string

	// DocRoot enables the static-file fallback for unmatched GET requests
	// when non-empty.
	DocRoot string

	// TrustProxy switches identity derivation to the first X-Forwarded-For
	// hop. Only enable behind a reverse proxy that controls that header.
	TrustProxy bool

	// FallbackPort is used to build the portal URL when a probe arrives
	// without a Host header.
	FallbackPort string

	// Log is the structured logger for handler operations.
	Log *slog.Logger
}

// Handler implements the captive-portal protocol over an acceptance registry.
type Handler struct {
	cfg      *Config
	registry *registry.AcceptanceRegistry
	sink     audit.Sink

	fileServer http.Handler
}

// NewHandler creates a portal handler. The registry is required; sink may be
// nil, in which case auditing is disabled.
func NewHandler(cfg *Config, reg *registry.AcceptanceRegistry, sink audit.Sink) *Handler {
	if cfg.FallbackPort == "" {
		cfg.FallbackPort = "8000"
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if sink == nil {
		sink = audit.NopSink{}
	}

	h := &Handler{
		cfg:      cfg,
		registry: reg,
		sink:     sink,
	}
	if cfg.DocRoot != "" {
		h.fileServer = http.FileServer(http.Dir(cfg.DocRoot))
	}
	return h
}

// RegisterRoutes registers the portal routes with the provided router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		r.Use(h.auditer)

		r.Get(APIPath, h.handleProbe)
		r.Get(PortalPath, h.handlePortalPage)
		r.Get("/", h.handleRoot)
		r.Post(AcceptPath, h.handleAccept)
		r.NotFound(h.handleFallback)
		r.MethodNotAllowed(h.handleFallback)
	})
}

// handleProbe serves the RFC 8908 discovery probe. The captive verdict is a
// pure function of the registry; the portal URL is rebuilt per request from
// the Host header so clients are pointed at whichever address they reached
// the gateway on.
func (h *Handler) handleProbe(w http.ResponseWriter, r *http.Request) {
	id := ClientIP(r, h.cfg.TrustProxy)
	captive := !h.registry.IsAccepted(id)
	metrics.ProbeRequests.WithLabelValues(strconv.FormatBool(captive)).Inc()

	state := &CaptiveState{
		Captive:       captive,
		UserPortalURL: h.portalURL(r.Host),
	}

	w.Header().Set("Content-Type", CaptiveJSONType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(state); err != nil {
		h.cfg.Log.Debug("writing probe response failed", "err", err)
	}
}

// handlePortalPage serves the acceptance page from disk.
func (h *Handler) handlePortalPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	if _, err := os.Stat(h.cfg.PortalFile); err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "%s not found\n", filepath.Base(h.cfg.PortalFile))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, h.cfg.PortalFile)
}

// handleRoot redirects to the portal page for convenience.
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, PortalPath, http.StatusFound)
}

// handleAccept records the client's acceptance. Accepting is idempotent and
// never fails, so the response is unconditionally 204.
func (h *Handler) handleAccept(w http.ResponseWriter, r *http.Request) {
	id := ClientIP(r, h.cfg.TrustProxy)
	h.registry.Accept(id)

	metrics.Accepts.Inc()
	metrics.AcceptedClients.Set(float64(h.registry.Len()))
	h.cfg.Log.Info("client accepted terms", "clientIP", string(id))

	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}

// handleFallback serves static files for unmatched GET requests when a
// document root is configured, and 404 otherwise.
func (h *Handler) handleFallback(w http.ResponseWriter, r *http.Request) {
	if h.fileServer != nil && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		h.fileServer.ServeHTTP(w, r)
		return
	}
	http.NotFound(w, r)
}

// portalURL combines the fixed scheme, the caller-supplied host and the fixed
// portal path into the absolute URL probes are pointed at.
func (h *Handler) portalURL(host string) string {
	if host == "" {
		host = net.JoinHostPort(selfAddress(), h.cfg.FallbackPort)
	}
	return "http://" + host + PortalPath
}

// selfAddress resolves the gateway's own address for the rare probe that
// carries no Host header.
func selfAddress() string {
	hostname, err := os.Hostname()
	if err == nil {
		if addrs, lookupErr := net.LookupHost(hostname); lookupErr == nil && len(addrs) > 0 {
			return addrs[0]
		}
	}
	return "127.0.0.1"
}

// auditer emits one fire-and-forget audit event per handled request. The
// event is built after the response is written so it can carry the status
// and latency; Record never blocks, so the client is not delayed.
func (h *Handler) auditer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		name := audit.EventRequest
		if r.Method == http.MethodPost && r.URL.Path == AcceptPath {
			name = audit.EventAccept
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		h.sink.Record(audit.Event{
			ID:        uuid.NewString(),
			Timestamp: time.Now().UTC(),
			Name:      name,
			Method:    r.Method,
			Path:      r.URL.RequestURI(),
			ClientIP:  string(ClientIP(r, h.cfg.TrustProxy)),
			Forwarded: r.Header.Get("X-Forwarded-For"),
			Host:      r.Host,
			UserAgent: r.UserAgent(),
			Referer:   r.Referer(),
			Status:    status,
			LatencyMS: time.Since(start).Milliseconds(),
		})
	})
}
