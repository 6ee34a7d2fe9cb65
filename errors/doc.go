// Package errors provides the service's structured error type.
//
// Every failure that reaches an HTTP handler is an *AppError carrying a
// machine-readable code, the HTTP status to answer with, and the message shown
// to the caller. The taxonomy is small:
//
//   - Configuration: a required setting (the provider credential) is missing.
//   - InvalidInput / MissingField / Validation / PayloadTooLarge: the caller sent
//     something unusable.
//   - Upstream: the external provider answered with a non-success status; its
//     status and message are forwarded.
//   - Unexpected: anything else (network faults, malformed provider payloads).
package errors
