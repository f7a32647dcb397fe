package fetch

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrEmptyKey = errors.New("request key is required")
	ErrNotFound = errors.New("resource not found")
	ErrNoBody   = errors.New("response has no JSON body")

	// ErrCancelled is what repositories return when the coordinator reports a
	// cancelled outcome. Services drop it without surfacing anything to the user.
	ErrCancelled = errors.New("request cancelled")
)

// ConnectivityMessage is shown to the user for every transport-level failure.
const ConnectivityMessage = "Unable to reach the server. Check your connection and try again."

// NetworkError is a transport failure: offline, DNS, refused connection,
// timeout or an open circuit breaker.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx response from the backend.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is lets callers test for a 404 with errors.Is(err, ErrNotFound).
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Invalid request",
	http.StatusNotFound:            "Resource not found",
	http.StatusConflict:            "Request conflicts with existing data",
	http.StatusInternalServerError: "Server error, please try again later",
}

func defaultMessage(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return fmt.Sprintf("HTTP error! status: %d", status)
}

// UserMessage renders err for display. Network failures collapse into
// ConnectivityMessage; everything else keeps its own text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return ConnectivityMessage
	}
	return err.Error()
}

// IsConstraintViolation reports whether err is the backend refusing a delete
// because other records still reference the row.
func IsConstraintViolation(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	if httpErr.Status == http.StatusConflict {
		return true
	}
	msg := strings.ToLower(httpErr.Message)
	return strings.Contains(msg, "constraint") || strings.Contains(msg, "foreign key")
}
