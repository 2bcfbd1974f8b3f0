package portal

import (
	"net"
	"net/http"
	"strings"

	"github.com/technicalnoodles/captive-portal/registry"
)

// ClientIP derives the client identity for acceptance tracking from request
// metadata. The derivation is deterministic: the same client over the same
// network path always maps to the same identity.
//
// When trustProxy is set the first hop of the X-Forwarded-For chain is used,
// which is only safe when a trusted reverse proxy sits directly in front of
// the gateway and overwrites or appends that header. Trust never extends past
// that single hop; later entries in the chain are ignored. Without
// trustProxy the transport source address is authoritative and forwarding
// headers are ignored entirely, since any client can fabricate them.
func ClientIP(r *http.Request, trustProxy bool) registry.ClientIdentity {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if first = strings.TrimSpace(first); first != "" {
				return registry.ClientIdentity(first)
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, e.g. from a test or unix socket.
		host = r.RemoteAddr
	}
	return registry.ClientIdentity(host)
}
