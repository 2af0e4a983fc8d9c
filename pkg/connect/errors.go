package connect

import "fmt"

// AuthenticationError is returned when the sign-in endpoint answered but did
// not grant an access token, which means the credentials were rejected. It is
// fatal and never retried.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// UnknownError is returned when the platform keeps rejecting our token even
// after a fresh sign-in. The request layer blindly retries these a bounded
// number of times before giving up.
type UnknownError struct {
	Status string
}

func (e *UnknownError) Error() string {
	return e.Status
}

// HTTPError carries any non-2xx response other than the 401s handled by the
// re-authentication path. It is surfaced to the caller as-is and never
// retried.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}
