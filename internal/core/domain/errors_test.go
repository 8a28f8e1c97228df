package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError("LH-TEST-0001", "something failed")
	if got := err.Error(); got != "[LH-TEST-0001] something failed" {
		t.Fatalf("Error() = %q", got)
	}

	withDetails := err.WithDetails("path /tmp/x")
	if got := withDetails.Error(); got != "[LH-TEST-0001] something failed: path /tmp/x" {
		t.Fatalf("Error() with details = %q", got)
	}
}

func TestDomainError_IsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("load state: %w", ErrSnapshotCorrupt.WithDetails("bad zlib header"))

	if !errors.Is(wrapped, ErrSnapshotCorrupt) {
		t.Fatal("errors.Is should match by code through wrapping")
	}
	if errors.Is(wrapped, ErrStoreIO) {
		t.Fatal("errors.Is must not match a different code")
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := ErrStoreIO.WithCause(cause)

	if !errors.Is(err, cause) {
		t.Fatal("cause should be reachable via errors.Is")
	}
}

func TestIsDomainError(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrConfigInvalid)

	if !IsDomainError(err, "LH-CONF-1000") {
		t.Fatal("IsDomainError with exact code")
	}
	if !IsDomainError(err, "") {
		t.Fatal("IsDomainError with empty code should match any DomainError")
	}
	if IsDomainError(errors.New("plain"), "") {
		t.Fatal("plain error must not match")
	}
}
