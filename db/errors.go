package db

import "errors"

// ErrUnsafeSQL is matched by every *ValidationError.
var ErrUnsafeSQL = errors.New("only single SELECT queries are allowed")

// ValidationError reports input that is not a safe single SELECT. It is
// raised before any I/O and the caller may simply try again.
type ValidationError struct {
	SQL string
}

func (e *ValidationError) Error() string {
	return ErrUnsafeSQL.Error()
}

// Is lets errors.Is(err, ErrUnsafeSQL) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrUnsafeSQL
}

// ExecutionError wraps a driver failure during connect or query.
type ExecutionError struct {
	Op  string // "connect" or "query"
	Err error
}

func (e *ExecutionError) Error() string {
	return "sql " + e.Op + ": " + e.Err.Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
