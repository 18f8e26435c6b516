package botapi

import (
	"fmt"
	"testing"
)

// TestErrorConstructors verifies code and description shaping per error kind.
func TestErrorConstructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		err             *Error
		wantKind        ErrorKind
		wantCode        int
		wantDescription string
	}{
		{
			name:            "validation",
			err:             NewValidationError("message text is empty"),
			wantKind:        ErrorKindValidation,
			wantCode:        400,
			wantDescription: "Bad Request: message text is empty",
		},
		{
			name:            "not found",
			err:             NewNotFoundError("chat"),
			wantKind:        ErrorKindNotFound,
			wantCode:        400,
			wantDescription: "Bad Request: chat not found",
		},
		{
			name:            "permission",
			err:             NewPermissionError("not enough rights to %s", "restrict chat members"),
			wantKind:        ErrorKindPermission,
			wantCode:        400,
			wantDescription: "Bad Request: not enough rights to restrict chat members",
		},
		{
			name:            "rate limit",
			err:             NewRateLimitError(7),
			wantKind:        ErrorKindRateLimit,
			wantCode:        429,
			wantDescription: "Too Many Requests: retry after 7",
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if testCase.err.Kind != testCase.wantKind {
				t.Fatalf("kind = %q, want %q", testCase.err.Kind, testCase.wantKind)
			}
			if testCase.err.Code != testCase.wantCode {
				t.Fatalf("code = %d, want %d", testCase.err.Code, testCase.wantCode)
			}
			if testCase.err.Description != testCase.wantDescription {
				t.Fatalf("description = %q, want %q", testCase.err.Description, testCase.wantDescription)
			}
		})
	}
}

// TestAsErrorUnwrapsChains verifies extraction through wrapped errors.
func TestAsErrorUnwrapsChains(t *testing.T) {
	t.Parallel()

	inner := NewNotFoundError("user")
	wrapped := fmt.Errorf("dispatch getChatMember: %w", inner)

	got, ok := AsError(wrapped)
	if !ok {
		t.Fatal("expected wrapped api error to be found")
	}
	if got != inner {
		t.Fatalf("extracted error = %p, want %p", got, inner)
	}

	if _, ok := AsError(fmt.Errorf("plain failure")); ok {
		t.Fatal("expected non-api error to be rejected")
	}
}

// TestRetryAfter verifies retry delay extraction for rate-limited chains only.
func TestRetryAfter(t *testing.T) {
	t.Parallel()

	seconds, ok := RetryAfter(fmt.Errorf("send: %w", NewRateLimitError(30)))
	if !ok {
		t.Fatal("expected rate limit error to carry a retry delay")
	}
	if seconds != 30 {
		t.Fatalf("retry after = %d, want 30", seconds)
	}

	if _, ok := RetryAfter(NewValidationError("bad")); ok {
		t.Fatal("expected validation error to carry no retry delay")
	}
}

// TestErrResponseShape verifies error envelope conversion.
func TestErrResponseShape(t *testing.T) {
	t.Parallel()

	response := ErrResponse(NewRateLimitError(5))
	if response.OK {
		t.Fatal("expected error response to be not ok")
	}
	if response.ErrorCode != 429 {
		t.Fatalf("error code = %d, want 429", response.ErrorCode)
	}
	if response.Parameters == nil || response.Parameters.RetryAfter != 5 {
		t.Fatalf("parameters = %+v, want retry_after 5", response.Parameters)
	}
}
