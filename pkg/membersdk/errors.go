package membersdk

import "fmt"

// APIError is a non-2xx response decoded from the service's error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("membersdk: %d %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether the error is a 401 APIError, the usual cue
// to sign in again.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == 401
}
