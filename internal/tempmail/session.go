package tempmail

import "context"

// Session pairs the active mailbox with its pinned provider and tracks
// the last observed message count for new-mail detection. A session is
// replaced wholesale when the user asks for a new address; nothing in
// it is ever mutated mid-flight by concurrent calls.
type Session struct {
	Mailbox *Mailbox

	provider  Provider
	lastCount int
	counted   bool
}

func NewSession(mb *Mailbox, p Provider) *Session {
	return &Session{Mailbox: mb, provider: p}
}

func (s *Session) Provider() ProviderID { return s.provider.ID() }

// Backend exposes the pinned provider, mainly so session persistence
// can extract provider-held credentials.
func (s *Session) Backend() Provider { return s.provider }

// List fetches the current inbox from the pinned provider. On failure
// it returns an empty listing alongside the error so callers can render
// a "temporarily no data" view instead of aborting.
func (s *Session) List(ctx context.Context) ([]MessageSummary, error) {
	msgs, err := s.provider.ListMessages(ctx, s.Mailbox)
	if err != nil {
		return nil, err
	}
	s.observe(len(msgs))
	return msgs, nil
}

// Read fetches one full message by id.
func (s *Session) Read(ctx context.Context, id string) (*Message, error) {
	return s.provider.ReadMessage(ctx, s.Mailbox, id)
}

// Refresh performs a single authoritative fetch and reports whether the
// message count grew since the last observed listing. Count comparison
// cannot detect same-count churn; that is a documented limitation.
func (s *Session) Refresh(ctx context.Context) ([]MessageSummary, bool, error) {
	msgs, err := s.provider.ListMessages(ctx, s.Mailbox)
	if err != nil {
		return nil, false, err
	}

	newMail := s.counted && len(msgs) > s.lastCount
	s.observe(len(msgs))
	return msgs, newMail, nil
}

// Inbox runs the fast/slow reconciled fetch and records the count of
// whichever listing ends up displayed.
func (s *Session) Inbox(ctx context.Context, r *Refresher) InboxView {
	view := r.Fetch(ctx, s.provider, s.Mailbox)
	if view.Err == nil {
		s.observe(len(view.Messages))
	}
	return view
}

func (s *Session) observe(n int) {
	s.lastCount = n
	s.counted = true
}
