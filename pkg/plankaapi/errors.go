package plankaapi

import (
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
)

// AuthenticationError is returned when no access token could be obtained.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return "planka authentication failed: " + e.Err.Error()
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from Planka.
type APIError struct {
	StatusCode int
	// Body is the parsed JSON body, or the text body encoded as a JSON string.
	Body json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("planka API error (status %d): %s", e.StatusCode, e.Body)
}

// TransportError is a network-level failure before any response arrived.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("planka transport error for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsAuthentication reports whether err is an authentication failure.
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}
