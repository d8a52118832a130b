package ledgerport

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorDetail is one entry in the service's error envelope.
type ErrorDetail struct {
	Message string  `json:"message"`
	Field   *string `json:"field,omitempty"`
}

// ErrorsRoot is the envelope the service wraps error responses in.
type ErrorsRoot struct {
	Errors []ErrorDetail `json:"errors"`
}

// APIError is an error response from the Ledgerport API.
type APIError struct {
	StatusCode int
	Status     string
	Errors     []ErrorDetail
	// Body holds the raw response body when it could not be decoded as the
	// standard error envelope.
	Body string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		if e.Body != "" {
			return fmt.Sprintf("ledgerport API error (status %d): %s", e.StatusCode, e.Body)
		}
		return fmt.Sprintf("ledgerport API error (status %d)", e.StatusCode)
	}

	messages := make([]string, 0, len(e.Errors))
	for _, detail := range e.Errors {
		if detail.Field != nil {
			messages = append(messages, fmt.Sprintf("%s: %s", *detail.Field, detail.Message))
			continue
		}
		messages = append(messages, detail.Message)
	}
	return fmt.Sprintf("ledgerport API error (status %d): %s", e.StatusCode, strings.Join(messages, "; "))
}

// IsNotFound reports whether err is, or wraps, an APIError with HTTP
// status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
