// Package service contains the business logic.
//
// It sits between the caller (CLI or HTTP handlers) and the repository
// layer. It validates input, performs the business operation and turns
// store failures into client-facing errors.
package service
