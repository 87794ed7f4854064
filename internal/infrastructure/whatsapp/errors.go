package whatsapp

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotConfigured is returned by Send when base url, instance or api key is missing.
	ErrNotConfigured = errors.New("whatsapp: client is not configured")
	// ErrInvalidPhone is returned when the number cannot be normalised to a Brazilian phone.
	ErrInvalidPhone = errors.New("whatsapp: invalid phone number")
)

// APIError is a non-2xx answer from the messaging gateway.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("whatsapp API error %d", e.StatusCode)
	}
	return fmt.Sprintf("whatsapp API error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether a failed send may succeed later. Client errors
// other than 429 are final; transport errors and 5xx are retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotConfigured) || errors.Is(err, ErrInvalidPhone) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		return apiErr.StatusCode >= 500
	}
	return true
}
