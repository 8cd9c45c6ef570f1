// Package daemon coordinates the long-running laneboard process.
//
// It wires configuration, the client store, the ranking engine, and the HTTP
// API into a single lifecycle with flock-based locking so only one process
// ever mutates the database. The daemon exposes store health for /healthz and
// Prometheus metrics for /metrics.
//
// Keep orchestration logic here: ranking arithmetic lives in
// internal/ranking and wire formats in internal/api, while the daemon focuses
// on startup, shutdown, and request plumbing.
package daemon
