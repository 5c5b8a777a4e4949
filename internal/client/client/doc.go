// Package client talks to the users API on behalf of the CLI.
//
// # Overview
//
// HTTPClient wraps the JSON/form HTTP surface: sign-up, login, the
// "my user" operations and file uploads. A successful Login keeps the bearer
// token in memory and attaches it to later calls; nothing is persisted.
// Ping asks the gRPC health service, falling back to GET /health when no
// health address is configured.
//
// # Error Handling
//
// Responses are mapped to sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrAlreadyExists,
// ErrNotFound, ErrValidation and ErrServer. The server's detail text is
// kept in the wrapped message.
//
// HTTPClient is safe for concurrent use.
package client
