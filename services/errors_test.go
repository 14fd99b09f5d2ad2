package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindsUnwrap(t *testing.T) {
	err := ConflictError("criterion %d has saved scores", 11)
	if !IsKind(err, KindConflict) {
		t.Fatalf("kind = %s, want %s", KindOf(err), KindConflict)
	}

	wrapped := fmt.Errorf("deleting: %w", err)
	if !IsKind(wrapped, KindConflict) {
		t.Fatalf("wrapped kind = %s, want %s", KindOf(wrapped), KindConflict)
	}

	var svcErr *Error
	if !errors.As(wrapped, &svcErr) {
		t.Fatalf("errors.As failed on wrapped service error")
	}
	if svcErr.Message != "criterion 11 has saved scores" {
		t.Fatalf("unexpected message: %q", svcErr.Message)
	}
}

func TestInternalErrorCarriesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := InternalError(cause, "failed to load review %d", 5)

	if !errors.Is(err, cause) {
		t.Fatalf("cause should be reachable via errors.Is")
	}
	if KindOf(err) != KindInternal {
		t.Fatalf("kind = %s, want %s", KindOf(err), KindInternal)
	}
}

func TestKindOfForeignError(t *testing.T) {
	if KindOf(errors.New("boom")) != KindInternal {
		t.Fatalf("foreign errors default to %s", KindInternal)
	}
}
