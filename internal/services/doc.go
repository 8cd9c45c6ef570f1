// Package services defines shared utilities consumed by the ranking engine,
// the HTTP layer, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp client IDs, lane names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the not-found / validation / internal taxonomy the API maps onto
//     status codes.
//
// Use these helpers when wiring new request paths so error handling and
// observability stay uniform.
package services
