package tempmail

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel failures. Callers classify with errors.Is; a timeout also
// matches ErrFetchFailed since it is a fetch-failure subtype.
var (
	ErrProvisioningFailed = errors.New("mailbox provisioning failed")
	ErrFetchFailed        = errors.New("fetch failed")
	ErrNotFound           = errors.New("message not found")
	ErrTimeout            = errors.New("request timed out")
)

// Kind classifies an APIError for errors.Is matching.
type Kind int

const (
	KindFetch Kind = iota
	KindNotFound
	KindTimeout
)

// APIError is a classified per-call failure from a provider backend.
type APIError struct {
	Provider   ProviderID
	Op         string
	StatusCode int
	Kind       Kind
	Err        error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %s failed", e.Provider, e.Op)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error { return e.Err }

func (e *APIError) Is(target error) bool {
	switch e.Kind {
	case KindNotFound:
		return target == ErrNotFound
	case KindTimeout:
		return target == ErrTimeout || target == ErrFetchFailed
	default:
		return target == ErrFetchFailed
	}
}

// NewFetchError wraps a transport or payload failure, promoting network
// timeouts and context deadlines to KindTimeout.
func NewFetchError(provider ProviderID, op string, statusCode int, err error) *APIError {
	kind := KindFetch
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		kind = KindTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}

	return &APIError{
		Provider:   provider,
		Op:         op,
		StatusCode: statusCode,
		Kind:       kind,
		Err:        err,
	}
}

// NewNotFoundError reports a read of an id the provider no longer
// knows, typically after mailbox replacement or server-side expiry.
func NewNotFoundError(provider ProviderID, op, id string) *APIError {
	return &APIError{
		Provider: provider,
		Op:       op,
		Kind:     KindNotFound,
		Err:      fmt.Errorf("no message with id %q", id),
	}
}
