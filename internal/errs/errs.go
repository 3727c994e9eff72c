// Package errs defines the error shapes handed to clients.
//
// Request handlers return an *HTTPError whenever a failure should reach
// the client with a stable code, a readable message and, for form input,
// per-field details. Lower layers (storeerr, validation) produce them.
package errs
