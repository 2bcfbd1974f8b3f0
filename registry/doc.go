// Package registry implements the in-memory acceptance state of the captive
// portal.
//
// The AcceptanceRegistry is the only mutable domain state in the gateway: a
// set of client identities that have completed the portal flow. The discovery
// endpoint reads it to decide whether a client is still captive, and the
// accept endpoint is the sole writer. State lives for the process lifetime
// only; there is deliberately no persistence or reload path.
package registry
