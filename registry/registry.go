package registry

import "sync"

// ClientIdentity is the key under which a client's acceptance is recorded.
// It is derived from request metadata (see the portal package) and must be
// stable across requests from the same client through the same network path.
type ClientIdentity string

// AcceptanceRegistry tracks which clients have accepted the portal terms.
//
// Membership is monotonic for the lifetime of the process: once a client
// identity is accepted it stays accepted until restart. There is no eviction,
// no size bound and no persistence. The registry is safe for concurrent use
// by any number of request handlers.
type AcceptanceRegistry struct {
	mu       sync.RWMutex
	accepted map[ClientIdentity]struct{}
}

// New creates an empty acceptance registry.
func New() *AcceptanceRegistry {
	return &AcceptanceRegistry{
		accepted: make(map[ClientIdentity]struct{}),
	}
}

// IsAccepted reports whether the identity has completed the portal flow.
func (r *AcceptanceRegistry) IsAccepted(id ClientIdentity) bool {
	r.mu.RLock()
	_, ok := r.accepted[id]
	r.mu.RUnlock()
	return ok
}

// Accept records the identity as having accepted the terms. Accepting an
// already-accepted identity is a no-op; Accept never fails.
func (r *AcceptanceRegistry) Accept(id ClientIdentity) {
	r.mu.Lock()
	r.accepted[id] = struct{}{}
	r.mu.Unlock()
}

// Len returns the number of accepted identities.
func (r *AcceptanceRegistry) Len() int {
	r.mu.RLock()
	n := len(r.accepted)
	r.mu.RUnlock()
	return n
}
