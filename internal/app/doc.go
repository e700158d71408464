// Package app wires FootLens together and manages the server lifecycle.
//
// NewApplication builds, in order: OpenTelemetry providers and the data
// metrics, the data and health services, the chi router with its middleware
// chain, and the HTTP server. Run then loads the injury file (unless
// data.load_on_start is false), serves until SIGINT or SIGTERM and shuts the
// server and telemetry down within server.shutdown_timeout.
//
// A failed startup load does not stop the server: /readyz answers 503 and the
// data endpoints report that nothing is loaded until POST /api/reload
// succeeds.
//
// Initialization errors are returned to the caller; the package never calls
// os.Exit.
package app
