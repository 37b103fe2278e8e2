package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the error envelope the upstream API returns on non-2xx
// responses. Message is human-readable and safe to show inline; ErrorKind is
// the machine-readable classifier when the API supplies one.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	ErrorKind  string `json:"error,omitempty"`
}

func (e *APIError) Error() string {
	if e.ErrorKind != "" {
		return fmt.Sprintf("upstream %d (%s): %s", e.StatusCode, e.ErrorKind, e.Message)
	}
	return fmt.Sprintf("upstream %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// UserMessage extracts the API-supplied human-readable message from err, or
// returns fallback for transport failures and malformed error bodies.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
