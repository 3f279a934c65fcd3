// Package probe turns MongoDB pings, HTTP endpoints, and custom functions into
// liveness and readiness checks for the info handler.
//
// NewHTTPProbe also backs the healthcheck command, which asks a running
// server for its readiness and reports the problem detail when it is not
// ready. See ExampleNewHTTPProbe_problemDetail.
package probe
