// Package logger configures the application's structured logging.
//
// It uses zerolog for log records and lumberjack for size-based rotation
// of the optional log file.
package logger
