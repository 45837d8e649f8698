package ddns

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingCredentials = errors.New("missing required credentials")
	ErrBadHTTPStatus      = errors.New("bad HTTP status")
	ErrNoIP               = errors.New("no IP address in lookup response")
	ErrProvider           = errors.New("DNS provider request failed")
)

// ConfigError lists every required credential field that was not set.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingCredentials, strings.Join(e.Missing, ", "))
}

func (e *ConfigError) Unwrap() error { return ErrMissingCredentials }

// HTTPStatusError is returned by a strict resolver when the lookup service
// responds with a 4xx or 5xx status.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %d", ErrBadHTTPStatus, e.StatusCode)
	}
	return fmt.Sprintf("%s: %d: %s", ErrBadHTTPStatus, e.StatusCode, e.Body)
}

func (e *HTTPStatusError) Unwrap() error { return ErrBadHTTPStatus }
