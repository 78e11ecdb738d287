package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeCycleRejected, "%s cannot report to %s", "CEO", "CFO")

	if err.Code != ErrCodeCycleRejected {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeCycleRejected)
	}

	if err.Message != "CEO cannot report to CFO" {
		t.Errorf("Message = %v, want %v", err.Message, "CEO cannot report to CFO")
	}

	expected := "CYCLE_REJECTED: CEO cannot report to CFO"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodePersistence, cause, "save influenceMap")

	if err.Code != ErrCodePersistence {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodePersistence)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	want := "PERSISTENCE: save influenceMap: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeImportParse, "test"),
			code:     ErrCodeImportParse,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeImportParse, "test"),
			code:     ErrCodePersistence,
			expected: false,
		},
		{
			name:     "outer code of wrapped error",
			err:      Wrap(ErrCodeBuildFailure, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeBuildFailure,
			expected: true,
		},
		{
			name:     "inner code of wrapped error",
			err:      Wrap(ErrCodeBuildFailure, New(ErrCodeDuplicateName, "inner"), "outer"),
			code:     ErrCodeDuplicateName,
			expected: true,
		},
		{
			name:     "dangling reference is a build failure",
			err:      New(ErrCodeDanglingReference, "CFO reports to unknown Board"),
			code:     ErrCodeBuildFailure,
			expected: true,
		},
		{
			name:     "build failure is not a dangling reference",
			err:      New(ErrCodeBuildFailure, "no root"),
			code:     ErrCodeDanglingReference,
			expected: false,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("import: %w", New(ErrCodeImportParse, "bad")),
			code:     ErrCodeImportParse,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNotFound, "x")); got != ErrCodeNotFound {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeNotFound)
	}
	if got := GetCode(fmt.Errorf("wrapped: %w", New(ErrCodeCycleRejected, "x"))); got != ErrCodeCycleRejected {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeCycleRejected)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeImportParse, "missing field %q", "role")); got != `missing field "role"` {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q, want plain", got)
	}
}
