// Package server hosts the Prometheus metrics endpoint.
//
// Metrics are served on a dedicated port, separate from anything exposed to
// end users, so operational data is only reachable from the scrape network.
// The server exposes /metrics via promhttp and a /healthz liveness probe.
package server
