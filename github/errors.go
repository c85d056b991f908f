package github

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// Classified failures. HTTP classifications retain the upstream status and
// body through StatusError; network classifications wrap the transport error
// surfaced after the retry loop gave up.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("resource not found")
	ErrAuthFailure        = errors.New("authentication failed")
	ErrForbidden          = errors.New("access forbidden")
	ErrMalformedRequest   = errors.New("malformed request")
	ErrUnexpectedStatus   = errors.New("unexpected response status")
	ErrNetworkTimeout     = errors.New("network timeout")
	ErrNetworkUnreachable = errors.New("network unreachable")
	ErrNetworkOther       = errors.New("network error")
)

// StatusError is a non-success HTTP response classified into the error
// taxonomy, carrying the upstream status code and body text.
type StatusError struct {
	Status int
	Body   string
	kind   error
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: status %d", e.kind, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.kind, e.Status, body)
}

func (e *StatusError) Unwrap() error {
	return e.kind
}

// classifyStatus maps a non-success response to a StatusError.
func classifyStatus(status int, body string) error {
	kind := ErrUnexpectedStatus
	switch status {
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusUnauthorized:
		kind = ErrAuthFailure
	case http.StatusForbidden:
		kind = ErrForbidden
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = ErrMalformedRequest
	}
	return &StatusError{Status: status, Body: body, kind: kind}
}

// classifyNetworkError maps a transport failure, after retries are
// exhausted, onto the network error taxonomy.
func classifyNetworkError(err error) error {
	var dnsErr *net.DNSError
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrNetworkTimeout, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %v", ErrNetworkTimeout, err)
	case errors.As(err, &dnsErr):
		return fmt.Errorf("%w: DNS lookup failed: %v", ErrNetworkUnreachable, err)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("%w: connection refused: %v", ErrNetworkUnreachable, err)
	default:
		return fmt.Errorf("%w: %v", ErrNetworkOther, err)
	}
}
