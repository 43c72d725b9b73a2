package tempmail

import "context"

// Provider is a backend capable of issuing disposable mailboxes and
// serving their messages. Implementations normalize their own payload
// shapes into the shared model; no caller ever branches on which
// provider is active.
type Provider interface {
	ID() ProviderID

	// CreateMailbox allocates a new disposable address. Backends that
	// require login state may perform several round-trips; either a
	// fully usable mailbox comes back or an error does.
	CreateMailbox(ctx context.Context) (*Mailbox, error)

	// ListMessages returns the current message set. Ordering is
	// provider-defined and must not be relied on.
	ListMessages(ctx context.Context, mb *Mailbox) ([]MessageSummary, error)

	// ReadMessage fetches one message body by its opaque id. A stale id
	// fails with ErrNotFound where the backend can distinguish it.
	ReadMessage(ctx context.Context, mb *Mailbox, id string) (*Message, error)
}
