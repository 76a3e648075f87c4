package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrValidationError(t *testing.T) {
	err := &ErrValidation{Field: "amount", Message: "must be positive"}
	if got, want := err.Error(), "amount: must be positive"; got != want {
		t.Fatalf("unexpected error string: got %q want %q", got, want)
	}
}

func TestInvalidTypeUnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("row 3: %w", InvalidType("Hold"))
	if !stderrors.Is(err, ErrInvalidTransactionType) {
		t.Fatalf("expected ErrInvalidTransactionType in chain, got %v", err)
	}
	if stderrors.Is(err, ErrInvalidAmount) {
		t.Fatalf("did not expect ErrInvalidAmount in chain")
	}
	if !IsValidation(err) {
		t.Fatalf("expected validation error")
	}
	if got, want := InvalidType("Hold").Error(), `type: unknown transaction type "Hold"`; got != want {
		t.Fatalf("unexpected error string: got %q want %q", got, want)
	}
}

func TestInvalidAmountUnwrapsToSentinel(t *testing.T) {
	err := InvalidAmount("units", "must be positive")
	if !stderrors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount in chain")
	}
	if IsValidation(ErrNotFound) {
		t.Fatalf("ErrNotFound is not a validation error")
	}
}
