// GO TESTING BASICS:
// 1. Test files MUST end in _test.go — Go's tooling auto-discovers them
// 2. Test functions MUST start with "Test" and take *testing.T as the only param
// 3. Same package as the code being tested (so we can access unexported stuff)
// 4. Run with: go test ./internal/apperror/ -v  (-v = verbose, shows each test name)
package apperror

import (
	"errors"
	"testing"
)

// TABLE-DRIVEN TESTS:
// This is Go's idiomatic pattern for testing multiple cases.
// Instead of writing separate test functions, we define a slice of test cases
// and loop over them. Adding a case = adding one struct to the slice, and
// every case gets its own name in the test output.

func TestErrorsIs(t *testing.T) {
	// Each test case checks that errors.Is() correctly identifies the error type
	tests := []struct {
		name      string // Descriptive name for test output
		err       error  // The error to test
		target    error  // What we expect it to match
		wantMatch bool   // Should errors.Is() return true?
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("snippet", 42),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("code", "code is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "InvalidFields wraps ErrValidation",
			err:       InvalidFields(map[string][]string{"code": {"code is required"}}),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("snippet", 42),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("snippet", 42),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "InvalidFields does NOT match ErrNotFound",
			err:       InvalidFields(map[string][]string{"title": {"too long"}}),
			target:    ErrNotFound,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("snippet", 42),
			wantMessage: "snippet not found with id 42",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("code", "code is required"),
			wantMessage: "code is required",
		},
		{
			name: "InvalidFields lists failing fields sorted",
			err: InvalidFields(map[string][]string{
				"style":    {"bad style"},
				"code":     {"code is required"},
				"language": {"bad language"},
			}),
			wantMessage: "invalid fields: code, language, style",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	// Verify that Unwrap() returns the underlying sentinel error.
	// This is what makes errors.Is() work — it "unwraps" the chain.
	err := NotFound("snippet", 42)
	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestFieldMessages(t *testing.T) {
	// Per-field messages survive intact — handlers forward them to clients
	// so the frontend can mark exactly which inputs failed.
	err := InvalidFields(map[string][]string{
		"title": {"title must be 100 characters or less", "title must be a string"},
	})

	if got := len(err.Fields["title"]); got != 2 {
		t.Errorf("len(Fields[title]) = %d, want 2", got)
	}

	single := ValidationFailed("id", "snippet id must be an integer")
	if single.Field != "id" {
		t.Errorf("Field = %q, want %q", single.Field, "id")
	}
	if got := single.Fields["id"]; len(got) != 1 || got[0] != "snippet id must be an integer" {
		t.Errorf("Fields[id] = %v, want the single message", got)
	}
}
