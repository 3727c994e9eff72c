package database

import (
	"errors"
	"strings"
)

// Code categorizes failures of the data-access core.
type Code string

const (
	// Other is reported by ErrCode for errors outside the taxonomy, such as
	// driver failures that are passed through unchanged.
	Other Code = "OTHER"

	ConnectionFailed Code = "CONNECTION_FAILED"
	IndexConflict    Code = "INDEX_CONFLICT"
	IndexFatal       Code = "INDEX_FATAL"
	NotInitialized   Code = "NOT_INITIALIZED"
	DuplicateKey     Code = "DUPLICATE_KEY"
)

// Sentinels for errors.Is. An *Error matches a sentinel with the same Code.
var (
	ErrConnection     = &Error{Code: ConnectionFailed}
	ErrIndexConflict  = &Error{Code: IndexConflict}
	ErrIndexFatal     = &Error{Code: IndexFatal}
	ErrNotInitialized = &Error{Code: NotInitialized}
	ErrDuplicateKey   = &Error{Code: DuplicateKey}
)

// ErrNameMismatch is returned by a Registry asked for a database other than
// the one its Manager is already bound to.
var ErrNameMismatch = errors.New("database: manager already bound to a different database")

// Error is a classified data-access failure.
type Error struct {
	Code       Code
	Op         string
	Collection string
	Field      string

	err error
}

// Wrap classifies err under code. Store backends use it to report
// duplicate keys and existing indexes.
func Wrap(code Code, err error) *Error {
	return &Error{Code: code, err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("database: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(" ")
	}
	if e.Collection != "" {
		b.WriteString(e.Collection)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
		b.WriteString(" ")
	}
	b.WriteString(strings.ToLower(strings.ReplaceAll(string(e.Code), "_", " ")))
	if e.err != nil {
		b.WriteString(": ")
		b.WriteString(e.err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.err
}

// Is matches any *Error carrying the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr.Code
	}
	return Other
}
