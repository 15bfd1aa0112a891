package relay

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a non-2xx relay response.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relay %s %s: %s", e.Method, e.URL, e.Status)
}

// Transient reports whether the relay asked us to try again later:
// 418 is its back-off marker and 5xx are server-side faults.
func (e *StatusError) Transient() bool {
	return e.Code == http.StatusTeapot || e.Code >= http.StatusInternalServerError
}

// IsTransient reports whether err should be retried on the next poll. Errors
// without an HTTP status (timeouts, refused connections) count as transient.
func IsTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Transient()
	}
	return err != nil
}
