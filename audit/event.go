package audit

import "time"

// Event names recorded by the gateway.
const (
	EventRequest = "request"
	EventAccept  = "accept"
)

// Event is a single audit record describing one handled request.
//
// The schema is free-form from the gateway's point of view: sinks persist
// whatever fields are set and nothing in the core depends on them being
// queryable.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"ts"`
	Name      string    `json:"event"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	ClientIP  string    `json:"clientIP"`
	Forwarded string    `json:"xff,omitempty"`
	Host      string    `json:"host,omitempty"`
	UserAgent string    `json:"ua,omitempty"`
	Referer   string    `json:"referer,omitempty"`
	Status    int       `json:"status"`
	LatencyMS int64     `json:"ms"`
}
