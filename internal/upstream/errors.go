package upstream

import "errors"

// ErrUnauthorized is returned when an authenticated call comes back 401. The
// caller is expected to clear the session and send the user back to login.
var ErrUnauthorized = errors.New("upstream: unauthorized")

// ErrAuthenticationFailed marks a login that yielded no usable token or was
// rejected by the server. Match with errors.Is.
var ErrAuthenticationFailed = errors.New("authentication failed")

// AuthError carries the server-provided login failure message for inline
// display. It unwraps to ErrAuthenticationFailed.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Message
}

func (e *AuthError) Unwrap() error { return ErrAuthenticationFailed }
