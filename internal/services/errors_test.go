package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapPreservesMarker(t *testing.T) {
	err := Wrap(ErrPlan, "assignment", "resolve", "duplicate audio selection", nil)
	if !errors.Is(err, ErrPlan) {
		t.Fatal("expected ErrPlan marker")
	}
	want := "plan inconsistency: assignment: resolve: duplicate audio selection"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestWrapChainsCause(t *testing.T) {
	cause := fmt.Errorf("open voices.json: no such file")
	err := Wrap(ErrPrecondition, "catalog", "load", "pack jp", cause)
	if !errors.Is(err, ErrPrecondition) {
		t.Fatal("expected ErrPrecondition marker")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Fatalf("nil error: got %d", got)
	}
	if got := ExitCode(Wrap(ErrConfiguration, "config", "validate", "bad language", nil)); got != 2 {
		t.Fatalf("configuration error: got %d", got)
	}
	if got := ExitCode(Wrap(ErrAssembly, "assembler", "crosscheck", "missing timing", nil)); got != 1 {
		t.Fatalf("assembly error: got %d", got)
	}
}
