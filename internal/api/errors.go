package api

import (
	"errors"
	"fmt"
	"strings"
)

var ErrBreakerOpen = errors.New("upstream circuit open")

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Service    string
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s %s: status %d", e.Service, e.Method, e.Path, e.StatusCode)
	if b := strings.TrimSpace(e.Body); b != "" {
		if len(b) > 200 {
			b = b[:200]
		}
		msg += ": " + b
	}
	return msg
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
