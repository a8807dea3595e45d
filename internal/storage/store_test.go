package storage

import "testing"

func TestFormatMovementRoundTrip(t *testing.T) {
	if got := FormatMovement(7); got != "7" {
		t.Fatalf("expected \"7\", got %q", got)
	}
	if got := ParseMovement("7", 9); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestParseMovementClampsCorruptedInput(t *testing.T) {
	if got := ParseMovement("not-a-number", 9); got != 0 {
		t.Fatalf("expected corrupted input to clamp to 0, got %d", got)
	}
	if got := ParseMovement("-3", 9); got != 0 {
		t.Fatalf("expected negative input to clamp to 0, got %d", got)
	}
	if got := ParseMovement("999", 9); got != 9 {
		t.Fatalf("expected over-max input to clamp to max 9, got %d", got)
	}
	if got := ParseMovement("  4  ", 9); got != 4 {
		t.Fatalf("expected surrounding whitespace to be trimmed, got %d", got)
	}
}

func TestOpenRejectsNonPostgresDSN(t *testing.T) {
	if _, err := Open("mysql://localhost/atlascore"); err == nil {
		t.Fatal("expected a non-postgres DSN scheme to be rejected before dialing")
	}
}
