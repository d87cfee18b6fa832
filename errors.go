package pgcrud

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// The error taxonomy. Every failure a tool returns is exactly one of these
// four kinds, so callers can tell "fix your call" (ValidationError), "the
// thing you named does not exist" (NotFoundError), "the backend rejected the
// statement" (DatabaseError), and "infrastructure problem, maybe retry"
// (ResourceError) apart. Nothing is retried here.

// ValidationError reports malformed or unsafe call parameters.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that a named table or record does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func notFoundErrorf(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// DatabaseError wraps a backend rejection (constraint violation, syntax
// error, type mismatch). Code carries the SQLSTATE when known.
type DatabaseError struct {
	Message string
	Code    string
	Err     error
}

func (e *DatabaseError) Error() string { return e.Message }
func (e *DatabaseError) Unwrap() error { return e.Err }

// ResourceError reports pool exhaustion, timeouts, or connection failures —
// infrastructure problems rather than query problems.
type ResourceError struct {
	Message string
	Err     error
}

func (e *ResourceError) Error() string { return e.Message }
func (e *ResourceError) Unwrap() error { return e.Err }

func resourceError(err error, format string, args ...any) *ResourceError {
	return &ResourceError{Message: fmt.Sprintf(format, args...) + ": " + err.Error(), Err: err}
}

// classifyExecError maps a driver-level execution failure onto the taxonomy.
// SQLSTATE undefined_table becomes NotFoundError so callers see a descriptive
// failure instead of a generic backend error; context expiry or cancellation
// is infrastructure; every other backend rejection passes through as
// DatabaseError with the backend's message.
func classifyExecError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgerrcode.UndefinedTable {
			return &NotFoundError{Message: pgErr.Message}
		}
		return &DatabaseError{Message: pgErr.Message, Code: pgErr.Code, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return resourceError(err, "statement abandoned")
	}
	return &DatabaseError{Message: err.Error(), Err: err}
}
