// Package audit provides best-effort request auditing for the gateway.
//
// Audit delivery is fire-and-forget: Record never blocks the caller, a full
// queue drops the event, and any error talking to the backing store is
// swallowed. The gateway behaves identically whether a sink is configured,
// misconfigured or unreachable; auditing is an observability side channel,
// never a correctness dependency.
//
// Two backends are provided, selected by connection-string scheme: PostgreSQL
// (postgres://) and Redis (redis://). NopSink is the default when no sink is
// configured, and MemorySink backs tests.
package audit
