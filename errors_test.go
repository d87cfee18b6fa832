package pgcrud

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassifyExecError_UndefinedTable(t *testing.T) {
	t.Parallel()
	pgErr := &pgconn.PgError{
		Code:    pgerrcode.UndefinedTable,
		Message: `relation "public.nope" does not exist`,
	}
	err := classifyExecError(pgErr)

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
	if notFound.Message != pgErr.Message {
		t.Errorf("expected backend message passed through, got %q", notFound.Message)
	}
}

func TestClassifyExecError_OtherPgError(t *testing.T) {
	t.Parallel()
	pgErr := &pgconn.PgError{
		Code:    pgerrcode.UniqueViolation,
		Message: "duplicate key value violates unique constraint",
	}
	err := classifyExecError(pgErr)

	var dbErr *DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected DatabaseError, got %T", err)
	}
	if dbErr.Code != pgerrcode.UniqueViolation {
		t.Errorf("expected SQLSTATE %s, got %q", pgerrcode.UniqueViolation, dbErr.Code)
	}
	if !errors.Is(err, pgErr) {
		t.Error("expected the driver error to stay reachable via Unwrap")
	}
}

func TestClassifyExecError_WrappedPgError(t *testing.T) {
	t.Parallel()
	pgErr := &pgconn.PgError{Code: pgerrcode.SyntaxError, Message: "syntax error at or near"}
	err := classifyExecError(fmt.Errorf("exec: %w", pgErr))

	var dbErr *DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected DatabaseError for wrapped PgError, got %T", err)
	}
}

func TestClassifyExecError_ContextExpiry(t *testing.T) {
	t.Parallel()
	for _, cause := range []error{context.DeadlineExceeded, context.Canceled} {
		err := classifyExecError(fmt.Errorf("query: %w", cause))
		var resErr *ResourceError
		if !errors.As(err, &resErr) {
			t.Fatalf("expected ResourceError for %v, got %T", cause, err)
		}
	}
}

func TestClassifyExecError_Unknown(t *testing.T) {
	t.Parallel()
	err := classifyExecError(errors.New("something broke"))
	var dbErr *DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected DatabaseError fallback, got %T", err)
	}
	if dbErr.Code != "" {
		t.Errorf("expected empty SQLSTATE for non-backend error, got %q", dbErr.Code)
	}
}
