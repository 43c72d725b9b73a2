package tempmail

import (
	"context"
	"time"
)

const (
	// DefaultRefreshDelay is how long the background refresh sleeps
	// before issuing its second fetch.
	DefaultRefreshDelay = 1500 * time.Millisecond

	// DefaultObserveWindow bounds how long the caller waits for the
	// delayed result. Far shorter than the delay, so the fast result
	// normally wins and the refresh finishes unobserved.
	DefaultObserveWindow = 100 * time.Millisecond
)

// InboxView is the caller-visible outcome of a reconciled inbox fetch.
type InboxView struct {
	Messages []MessageSummary

	// Updated is set when the delayed refresh landed inside the
	// observation window with different content than the fast fetch.
	Updated bool

	// Err carries a fast-fetch failure. The view degrades to an empty
	// listing; the session loop keeps running.
	Err error
}

// Refresher decouples the rendered inbox from the authoritative fetch:
// a fast synchronous listing is returned immediately while a delayed
// second listing runs in the background and is reconciled only if it
// lands within the observation window.
type Refresher struct {
	Delay  time.Duration
	Window time.Duration
}

func NewRefresher() *Refresher {
	return &Refresher{
		Delay:  DefaultRefreshDelay,
		Window: DefaultObserveWindow,
	}
}

// Fetch issues the fast listing, kicks off the delayed refresh, then
// waits at most Window for the refresh to land. The background task is
// fire-and-forget: it always runs to completion or failure, and its
// result is discarded if the window has already elapsed. The cell is
// write-once and never reused across invocations, so no locking is
// needed. A failed delayed refresh leaves the cell empty, which reads
// as "no update".
func (r *Refresher) Fetch(ctx context.Context, p Provider, mb *Mailbox) InboxView {
	fast, err := p.ListMessages(ctx, mb)

	cell := make(chan []MessageSummary, 1)
	go func() {
		time.Sleep(r.Delay)
		// Deliberately not ctx: the refresh outlives the caller's wait.
		msgs, rerr := p.ListMessages(context.Background(), mb)
		if rerr != nil {
			return
		}
		cell <- msgs
	}()

	window := time.NewTimer(r.Window)
	defer window.Stop()

	select {
	case refreshed := <-cell:
		if !EqualSummaries(fast, refreshed) {
			return InboxView{Messages: refreshed, Updated: true}
		}
		return InboxView{Messages: fast, Err: err}
	case <-window.C:
		return InboxView{Messages: fast, Err: err}
	}
}
