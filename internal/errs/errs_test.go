package errs

import (
	"fmt"
	"testing"
)

func TestErrorMessageFormatting(t *testing.T) {
	e := New(UnknownId, "unknown game \"g1\"")
	if e.Error() != `UnknownId: unknown game "g1"` {
		t.Fatalf("unexpected message: %s", e.Error())
	}
	bare := New(NotAuthenticated, "")
	if bare.Error() != "NotAuthenticated" {
		t.Fatalf("expected bare kind string for an empty message, got %q", bare.Error())
	}
}

func TestKindOfUnwrapsThroughWrappedErrors(t *testing.T) {
	base := New(PersistenceFailed, "save game")
	wrapped := fmt.Errorf("handler: %w", base)
	if KindOf(wrapped) != PersistenceFailed {
		t.Fatalf("expected KindOf to unwrap to PersistenceFailed, got %s", KindOf(wrapped))
	}
}

func TestKindOfDefaultsToInternalForForeignErrors(t *testing.T) {
	if KindOf(fmt.Errorf("plain error")) != Internal {
		t.Fatal("expected a non-*Error to default to Internal")
	}
	if KindOf(nil) != "" {
		t.Fatal("expected KindOf(nil) to be empty")
	}
}

func TestWrapPreservesCauseForUnwrap(t *testing.T) {
	cause := fmt.Errorf("db down")
	wrapped := Wrap(PersistenceFailed, "save game", cause)
	if wrapped.Unwrap() != cause {
		t.Fatal("expected Unwrap to return the original cause")
	}
}
