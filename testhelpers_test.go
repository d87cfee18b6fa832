package pgcrud

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

// newValidationServer returns a Server with no pool. Input validation runs
// before any slot or connection is acquired, so these tests never touch a
// database.
func newValidationServer() *Server {
	return &Server{logger: zerolog.Nop()}
}

func wantValidationError(t *testing.T, err error, message string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a validation error, got nil")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if message != "" && vErr.Message != message {
		t.Errorf("unexpected message: got %q, want %q", vErr.Message, message)
	}
}

func intPtr(n int) *int { return &n }
