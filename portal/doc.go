// Package portal implements the captive-portal HTTP surface.
//
// The handler answers the RFC 8908 discovery probe at
// /.well-known/captive-portal, serves the human-facing acceptance page at
// /portal, records acceptance via POST /accept, and redirects / to the portal
// page. Anything else falls through to a plain static file server when a
// document root is configured.
//
// The probe's captive verdict is derived entirely from the acceptance
// registry: a client is captive until its identity has been passed to Accept,
// and never captive again afterwards. Every core response carries
// Cache-Control: no-store; a cached captive verdict would defeat the
// protocol.
package portal
