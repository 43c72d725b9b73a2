package tempmail

import (
	"context"
	"errors"
	"fmt"
)

// Selector provisions a mailbox by trying providers in priority order.
// The first provider to succeed wins and is pinned for the lifetime of
// the resulting session; there is no automatic failback once pinned.
type Selector struct {
	providers []Provider
}

func NewSelector(providers ...Provider) *Selector {
	return &Selector{providers: providers}
}

// Provision runs the fallback chain: each provider is attempted exactly
// once, in order, and the unused branch is never touched. If every
// provider fails, a single ErrProvisioningFailed is surfaced carrying
// the per-provider causes; no partial mailbox is ever returned.
func (s *Selector) Provision(ctx context.Context) (*Session, error) {
	var attempts []error
	for _, p := range s.providers {
		mb, err := p.CreateMailbox(ctx)
		if err != nil {
			attempts = append(attempts, fmt.Errorf("%s: %w", p.ID(), err))
			continue
		}
		return NewSession(mb, p), nil
	}

	return nil, fmt.Errorf("%w: %w", ErrProvisioningFailed, errors.Join(attempts...))
}
