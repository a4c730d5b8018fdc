package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Transport-level failures, kept distinct so callers can tell "server down"
// from "server too slow".
var (
	ErrUnreachable = errors.New("cannot reach the agenda backend")
	ErrTimeout     = errors.New("agenda backend took too long to respond")
)

// APIError is a server-reported failure (any 4xx/5xx). The message is the
// backend's own when it sent one.
type APIError struct {
	StatusCode int
	Message    string
	Entity     string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: backend returned %d: %s", e.Entity, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: backend returned %d", e.Entity, e.StatusCode)
}

// UserMessage maps the error taxonomy to operator-facing text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrTimeout) {
		return "The server is taking too long to respond. Try again in a moment."
	}
	if errors.Is(err, ErrUnreachable) {
		return "Cannot reach the server. Check that the backend is running."
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "Unexpected error. Check the console logs for details."
	}
	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		return "Your session has expired. Please log in again."
	case http.StatusForbidden:
		return "You do not have permission to perform this action."
	case http.StatusNotFound:
		return "The resource no longer exists."
	case http.StatusBadRequest:
		if apiErr.Message != "" {
			return "Invalid data: " + apiErr.Message
		}
		return "Invalid data. Check the submitted fields."
	default:
		if apiErr.StatusCode >= 500 {
			return "The server reported an internal error. Try again later."
		}
		return apiErr.Error()
	}
}

// IsStatus reports whether err is an APIError with one of the given codes.
func IsStatus(err error, codes ...int) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, c := range codes {
		if apiErr.StatusCode == c {
			return true
		}
	}
	return false
}

// verbUnsupported gates the documented per-resource fallbacks: a 404 or 405
// means the preferred endpoint/verb is missing on this backend build, so the
// narrower alternative is tried. Nothing else triggers a second call.
func verbUnsupported(err error) bool {
	return IsStatus(err, http.StatusNotFound, http.StatusMethodNotAllowed)
}

// classifyTransport distinguishes timeouts from plain connectivity failures.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}
