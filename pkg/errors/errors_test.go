package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidPath, "folder does not exist: %s", "/tmp/x")

	if err.Code != ErrCodeInvalidPath {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidPath)
	}
	if err.Message != "folder does not exist: /tmp/x" {
		t.Errorf("Message = %v", err.Message)
	}
	if got, want := err.Error(), "INVALID_PATH: folder does not exist: /tmp/x"; got != want {
		t.Errorf("Error() = %v, want %v", got, want)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeSymbolSource, cause, "connect to language server")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got, want := err.Error(), "SYMBOL_SOURCE: connect to language server: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeNoCodeFiles, "x"), ErrCodeNoCodeFiles, true},
		{"non-matching code", New(ErrCodeNoCodeFiles, "x"), ErrCodeInvalidPath, false},
		{"wrapped by fmt", fmt.Errorf("read: %w", New(ErrCodeInvalidPath, "x")), ErrCodeInvalidPath, true},
		{"outer code wins", Wrap(ErrCodeCanceled, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeCanceled, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := fmt.Errorf("run: %w", New(ErrCodeNoCodeFiles, "no files ending in go"))
	if got := GetCode(err); got != ErrCodeNoCodeFiles {
		t.Errorf("GetCode() = %v", got)
	}
	if got := UserMessage(err); got != "no files ending in go" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %q", got)
	}
}

func TestValidateExtensions(t *testing.T) {
	tests := []struct {
		exts    []string
		wantErr bool
	}{
		{[]string{"go"}, false},
		{[]string{"swift", "h", "m"}, false},
		{nil, true},
		{[]string{""}, true},
		{[]string{".go"}, true},
		{[]string{"a/b"}, true},
	}
	for _, tt := range tests {
		err := ValidateExtensions(tt.exts)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateExtensions(%v) error = %v, wantErr %v", tt.exts, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidConfig) {
			t.Errorf("ValidateExtensions(%v) code = %v", tt.exts, GetCode(err))
		}
	}
}

func TestValidateSize(t *testing.T) {
	if err := ValidateSize(800, 600); err != nil {
		t.Errorf("ValidateSize(800, 600) = %v", err)
	}
	for _, s := range [][2]float64{{0, 10}, {10, 0}, {-1, 5}} {
		if err := ValidateSize(s[0], s[1]); !Is(err, ErrCodeInvalidSize) {
			t.Errorf("ValidateSize(%v) = %v, want INVALID_SIZE", s, err)
		}
	}
}
