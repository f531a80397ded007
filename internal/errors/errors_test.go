package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewAppError_Categorizes(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		category ErrorCategory
		severity ErrorSeverity
	}{
		{ErrCodeValidation, CategoryValidation, SeverityWarning},
		{ErrCodeNotFound, CategoryResource, SeverityInfo},
		{ErrCodeConflict, CategoryResource, SeverityWarning},
		{ErrCodeIO, CategoryStorage, SeverityError},
		{ErrCodeInternalError, CategoryService, SeverityCritical},
		{ErrCodeConfig, CategoryService, SeverityError},
		{ErrorCode("SOMETHING_ELSE"), CategorySystem, SeverityError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := NewAppError(tt.code, "msg")
			if err.Category != tt.category {
				t.Errorf("Expected category %s, got %s", tt.category, err.Category)
			}
			if err.Severity != tt.severity {
				t.Errorf("Expected severity %s, got %s", tt.severity, err.Severity)
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	if got := NotFoundError("x").Error(); got != "NOT_FOUND: x not found" {
		t.Errorf("Unexpected message: %q", got)
	}
	got := IOError("write", fmt.Errorf("disk full")).Error()
	if got != "IO_ERROR: File operation failed: write (disk full)" {
		t.Errorf("Unexpected message: %q", got)
	}
}

func TestAppError_IsMatchesCode(t *testing.T) {
	err := fmt.Errorf("writing note: %w", ConflictError("/ws/a.md"))

	if !stderrors.Is(err, NewAppError(ErrCodeConflict, "")) {
		t.Error("Expected errors.Is to match on CONFLICT")
	}
	if stderrors.Is(err, NewAppError(ErrCodeNotFound, "")) {
		t.Error("Expected errors.Is not to match a different code")
	}
	if !HasCode(err, ErrCodeConflict) {
		t.Error("Expected HasCode to find CONFLICT through wrapping")
	}
	if HasCode(fmt.Errorf("plain"), ErrCodeConflict) {
		t.Error("Plain errors carry no code")
	}
	if path := GetAppError(err).Context["path"]; path != "/ws/a.md" {
		t.Errorf("Expected path context, got %v", path)
	}
}

func TestWrap_Unwraps(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(cause, ErrCodeConfig, "bad config")

	if !stderrors.Is(err, cause) {
		t.Error("Expected wrapped error to unwrap to its cause")
	}
	if !IsAppError(err) {
		t.Error("Expected IsAppError to be true")
	}
}

func TestGetAppError_ConvertsPlainErrors(t *testing.T) {
	plain := fmt.Errorf("boom")
	appErr := GetAppError(plain)

	if appErr == nil {
		t.Fatal("Expected an AppError")
	}
	if appErr.Code != ErrCodeInternalError {
		t.Errorf("Expected INTERNAL_ERROR, got %s", appErr.Code)
	}
	if appErr.Cause != plain {
		t.Error("Expected the plain error to be kept as cause")
	}
	if IsAppError(plain) {
		t.Error("Plain error should not be an AppError")
	}
}

func TestCLIErrorHandler(t *testing.T) {
	err := Wrap(fmt.Errorf("permission denied"), ErrCodeIO, "failed to write note").
		WithDetails("/ws/a.md")

	quiet := NewCLIErrorHandler(false)
	if got := quiet.FormatError(err); got != "ERROR: failed to write note" {
		t.Errorf("Unexpected quiet output: %q", got)
	}
	if quiet.ExitCode(err) != 1 || quiet.ExitCode(nil) != 0 {
		t.Error("Expected exit code 1 for errors and 0 for nil")
	}

	out := NewCLIErrorHandler(true).FormatError(err)
	if !strings.HasPrefix(out, "ERROR: failed to write note") {
		t.Errorf("Unexpected verbose output: %q", out)
	}
	for _, want := range []string{"code: IO_ERROR", "details: /ws/a.md", "caused by: permission denied"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected verbose output to contain %q, got %q", want, out)
		}
	}
}

func TestCLIErrorHandler_SeverityPrefix(t *testing.T) {
	h := NewCLIErrorHandler(false)

	tests := []struct {
		err  error
		want string
	}{
		{NotFoundError("template"), "INFO: template not found"},
		{ValidationError("name must not be empty"), "WARNING: name must not be empty"},
		{fmt.Errorf("boom"), "CRITICAL: Internal error occurred"},
	}
	for _, tt := range tests {
		if got := h.FormatError(tt.err); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}
