// Package handler is the HTTP entry point for business logic.
//
// Handlers bind and validate the request body, call the service layer and
// write the response. Failures are returned to the global error handler.
package handler
