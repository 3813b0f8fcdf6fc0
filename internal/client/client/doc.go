// Package client talks to the church backend's REST API.
//
// # Overview
//
// Client is the transport-agnostic contract used by the session and catalog
// services; HTTPClient implements it with net/http and JSON. Every request:
//
//   - is bounded by a per-request timeout,
//   - waits on a token-bucket limiter (golang.org/x/time/rate),
//   - carries an X-Request-ID header,
//   - is reported to a metrics.Recorder.
//
// # Error Handling
//
// Failures come back as one of:
//
//   - *NetworkError: no response (matches ErrUnavailable),
//   - *AuthError: login, register or profile update rejected; Message is the
//     server's "message" or a fixed fallback; 401/403 match ErrUnauthorized,
//   - *StatusError: a catalog list answered with a non-success status,
//   - ErrInvalidResponse: a success status with an unusable body.
//
// Envelope tolerance
//
// The backend has shipped two response shapes. The user object is read from
// "user" and, failing that, from "user-details" (login) or "data" (update).
package client
