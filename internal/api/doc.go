// Package api defines wire-format types and the service layer behind the HTTP
// surface. It translates clients.Client records into transport-friendly DTOs
// and turns raw request values into ranking requests.
//
// # Key Types
//
// Client: transport representation of a ranked client.
//
// ErrorResponse: the {message, long_message} body returned for every 4xx and
// 5xx response.
//
// ClientService: list, describe, and move operations returning DTOs.
//
// ValidationError: caller-facing failure that maps to 400.
//
// # Design Notes
//
// DTOs use snake_case JSON tags. Lanes are exposed as the lowercase "status"
// string. Timestamps use RFC3339 with milliseconds.
//
// A move body's priority may be a JSON number or a numeric string; anything
// else is forwarded as an unparseable priority so the engine rejects only the
// re-rank part of the move.
package api
