package nicolive

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedScheme    = errors.New("unsupported url scheme")
	ErrUnsupportedMethod    = errors.New("unsupported method")
	ErrTransport            = errors.New("transport error")
	ErrUnexpectedStatus     = errors.New("unexpected status code")
	ErrMalformedResponse    = errors.New("malformed response")
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// StatusError reports an HTTP status outside the set an endpoint may return.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status code %d", e.Endpoint, e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}
