// Package medhub provides an HTTP client for the MedHub backend API.
//
// # Overview
//
// This package defines the API client for the medicine-reminder service. It
// handles HTTP communication, JSON serialization, the session cookie, and
// type-safe representation of the profile, address, and reminder records.
//
// # Architecture
//
// The package is split into two files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the MedHub API schema
//
// # Endpoints
//
//   - POST /login, POST /register/: form-encoded credentials; the session
//     token arrives as a "token" cookie on the (unfollowed) redirect response
//   - GET  /api/info: profile + address + reminders in one payload
//   - POST /api/info: persist profile edits
//   - GET  /api/reminders/user: the caller's reminder list
//   - POST /api/reminders/add: create one reminder
//   - DELETE /api/reminders/delete/{id}: remove one reminder
//
// # Error Handling
//
// Transport failures (connection refused, timeout) surface as wrapped errors.
// Refusals the server expresses, non-2xx statuses or 2xx payloads carrying an
// "error"/"detail" field, become *APIError so callers can treat both
// identically.
//
// # Thread Safety
//
// The Client is safe for concurrent requests once configured. SetToken must
// not race with in-flight requests; the app sets it at login, before any
// background work starts.
package medhub
