package domain

import (
	"errors"
	"testing"
)

func TestValidationError_SingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("title", "required")
	want := "validation: title: required"
	if err.Error() != want {
		t.Errorf("message: got %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("must unwrap to ErrValidation")
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "title", Message: "required"},
		{Field: "category", Message: "unknown"},
	})
	want := "validation: 2 errors"
	if err.Error() != want {
		t.Errorf("message: got %q, want %q", err.Error(), want)
	}
}

func TestInvalidTransitionError_Message(t *testing.T) {
	t.Parallel()

	err := &InvalidTransitionError{From: IssueStatusClosed, To: IssueStatusOpen}
	want := `cannot transition issue from "closed" to "open"`
	if err.Error() != want {
		t.Errorf("message: got %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrInvalidTransition) {
		t.Error("must unwrap to ErrInvalidTransition")
	}
}
