package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("prompt", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "TagNotFound wraps ErrNotFound",
			err:       TagNotFound("abc123", "AI"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("title", "title is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "InvalidReference wraps ErrInvalidReference",
			err:       InvalidReference("collection_id", "c1"),
			target:    ErrInvalidReference,
			wantMatch: true,
		},
		{
			name:      "InvalidReference does NOT match ErrNotFound",
			err:       InvalidReference("collection_id", "c1"),
			target:    ErrNotFound,
			wantMatch: false,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("prompt", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "wrapped NotFound still matches",
			err:       fmt.Errorf("deleting collection: %w", NotFound("collection", "c1")),
			target:    ErrNotFound,
			wantMatch: true,
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
			err:         NotFound("prompt", "abc123"),
			wantMessage: "prompt not found with id abc123",
		},
		{
			name:        "TagNotFound message includes tag name and prompt",
			err:         TagNotFound("abc123", "AI"),
			wantMessage: `tag "AI" not found on prompt abc123`,
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("title", "title is required"),
			wantMessage: "title is required",
		},
		{
			name:        "InvalidReference names the field and id",
			err:         InvalidReference("collection_id", "c1"),
			wantMessage: "collection_id c1 does not reference an existing collection",
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
	err := NotFound("collection", "abc123")
	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestFieldIsRecorded(t *testing.T) {
	if err := ValidationFailed("tags", "tags cannot be empty"); err.Field != "tags" {
		t.Errorf("Field = %q, want %q", err.Field, "tags")
	}
	if err := InvalidReference("collection_id", "x"); err.Field != "collection_id" {
		t.Errorf("Field = %q, want %q", err.Field, "collection_id")
	}
}
