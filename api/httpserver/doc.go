// Package httpserver provides the reusable HTTP server the gateway runs on.
//
// BaseServer wires a chi router with standard middleware (request IDs, panic
// recovery, structured request logging), health and lifecycle endpoints, an
// optional Prometheus metrics listener and optional pprof, then hands the
// router to RouteRegistrar components for their domain routes. The portal
// handler is one such registrar.
//
// # Server Lifecycle
//
//  1. Initialization: configure the server and pass in route registrars
//  2. Startup: RunInBackground starts the HTTP and metrics listeners
//  3. Readiness control: /drain and /undrain flip the /readyz verdict so
//     load balancers can rotate the instance out before shutdown
//  4. Graceful shutdown: Shutdown waits for in-flight requests up to the
//     configured duration
//
// # Health and Diagnostics
//
//   - /livez: process is up
//   - /readyz: process is accepting portal traffic
//   - /drain, /undrain: readiness toggles for rollout tooling
//   - optional /metrics on a separate listener, optional /debug pprof
package httpserver
