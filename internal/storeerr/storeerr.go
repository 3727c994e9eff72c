// Package storeerr turns data-access failures into client-facing errors.
//
// Request handlers call HandleError on whatever the database layer
// returned; a duplicate email becomes a 400 with a stable code, an
// unreachable store a 503, and anything unexpected a generic 500.
package storeerr
