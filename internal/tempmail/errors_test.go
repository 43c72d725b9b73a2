package tempmail

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		fetchFailed bool
		notFound    bool
		timeout     bool
	}{
		{
			name:        "plain fetch failure",
			err:         NewFetchError(ProviderOneSecMail, "listMessages", 500, fmt.Errorf("boom")),
			fetchFailed: true,
		},
		{
			name:     "not found",
			err:      NewNotFoundError(ProviderMailTM, "readMessage", "gone"),
			notFound: true,
		},
		{
			name:        "network timeout is a fetch-failure subtype",
			err:         NewFetchError(ProviderOneSecMail, "listMessages", 0, timeoutErr{}),
			fetchFailed: true,
			timeout:     true,
		},
		{
			name:        "context deadline is a timeout",
			err:         NewFetchError(ProviderMailTM, "listMessages", 0, context.DeadlineExceeded),
			fetchFailed: true,
			timeout:     true,
		},
	}

	for _, tc := range tests {
		if got := errors.Is(tc.err, ErrFetchFailed); got != tc.fetchFailed {
			t.Errorf("%s: Is(ErrFetchFailed) = %v; want %v", tc.name, got, tc.fetchFailed)
		}
		if got := errors.Is(tc.err, ErrNotFound); got != tc.notFound {
			t.Errorf("%s: Is(ErrNotFound) = %v; want %v", tc.name, got, tc.notFound)
		}
		if got := errors.Is(tc.err, ErrTimeout); got != tc.timeout {
			t.Errorf("%s: Is(ErrTimeout) = %v; want %v", tc.name, got, tc.timeout)
		}
	}
}
