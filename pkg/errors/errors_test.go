package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidSize, "test message: %s", "value")

	if err.Code != ErrCodeInvalidSize {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidSize)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_SIZE: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeHostOperation, cause, "resize failed")

	if err.Code != ErrCodeHostOperation {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeHostOperation)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
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
			err:      New(ErrCodeInvalidSize, "test"),
			code:     ErrCodeInvalidSize,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidSize, "test"),
			code:     ErrCodeSourceNotFound,
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "wrapped structured error",
			err:      fmt.Errorf("outer: %w", New(ErrCodeLayout, "inner")),
			code:     ErrCodeLayout,
			expected: true,
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
	if got := GetCode(New(ErrCodeSourceNotFound, "gone")); got != ErrCodeSourceNotFound {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeSourceNotFound)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidConfig, "bad toml")); got != "bad toml" {
		t.Errorf("UserMessage() = %v, want %v", got, "bad toml")
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %v, want %v", got, "plain")
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "missing source is fatal",
			err:  New(ErrCodeNoSourceConfigured, "no landscape source"),
			want: true,
		},
		{
			name: "invalid size is fatal",
			err:  New(ErrCodeInvalidSize, "width must be positive"),
			want: true,
		},
		{
			name: "host failure is per-size",
			err:  New(ErrCodeHostOperation, "duplicate rejected"),
			want: false,
		},
		{
			name: "source not found is per-size",
			err:  New(ErrCodeSourceNotFound, "removed from document"),
			want: false,
		},
		{
			name: "plain error is not fatal",
			err:  errors.New("plain"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal() = %v, want %v", got, tt.want)
			}
		})
	}
}
