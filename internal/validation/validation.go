// Package validation validates data before it reaches the store.
//
// It uses the validator library to enforce rules declared in struct tags
// (required fields, email format, ...) and turns failures into
// field-level errors a client can act on.
package validation
