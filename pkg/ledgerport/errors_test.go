package ledgerport

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{
			"single message",
			&APIError{StatusCode: 422, Errors: []ErrorDetail{{Message: "Reference is required"}}},
			"ledgerport API error (status 422): Reference is required",
		},
		{
			"message with field",
			&APIError{StatusCode: 422, Errors: []ErrorDetail{{Message: "is required", Field: String("dated_on")}}},
			"ledgerport API error (status 422): dated_on: is required",
		},
		{
			"multiple messages",
			&APIError{StatusCode: 422, Errors: []ErrorDetail{
				{Message: "is required", Field: String("contact")},
				{Message: "Reference is taken"},
			}},
			"ledgerport API error (status 422): contact: is required; Reference is taken",
		},
		{
			"undecodable body",
			&APIError{StatusCode: 502, Body: "Bad Gateway"},
			"ledgerport API error (status 502): Bad Gateway",
		},
		{
			"no detail at all",
			&APIError{StatusCode: 500},
			"ledgerport API error (status 500)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	notFound := &APIError{StatusCode: http.StatusNotFound}

	if !IsNotFound(notFound) {
		t.Error("IsNotFound() = false for a 404 APIError")
	}
	if !IsNotFound(fmt.Errorf("failed to get invoice: %w", notFound)) {
		t.Error("IsNotFound() = false for a wrapped 404 APIError")
	}
	if IsNotFound(&APIError{StatusCode: http.StatusUnprocessableEntity}) {
		t.Error("IsNotFound() = true for a 422 APIError")
	}
	if IsNotFound(errors.New("connection refused")) {
		t.Error("IsNotFound() = true for a non-API error")
	}
}
