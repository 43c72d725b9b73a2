package tempmail

import (
	"fmt"
	"strings"
)

// ProviderID identifies which backend issued a mailbox.
type ProviderID string

const (
	ProviderOneSecMail ProviderID = "1secmail"
	ProviderMailTM     ProviderID = "mailtm"
)

// Placeholder values applied at the provider boundary so rendering code
// never has to null-check message fields.
const (
	UnknownSender = "(unknown)"
	NoSubject     = "(no subject)"
	NoBody        = "(no body)"
)

// Mailbox is a disposable address issued by a provider. It is immutable:
// requesting a new address produces a new Mailbox, never a mutation.
type Mailbox struct {
	Address  string
	Login    string
	Domain   string
	Provider ProviderID
}

// NewMailbox splits a full address into login and domain parts.
// Addresses that are not of the form login@domain are rejected so a
// half-filled mailbox can never escape a provider.
func NewMailbox(address string, provider ProviderID) (*Mailbox, error) {
	login, domain, ok := strings.Cut(address, "@")
	if !ok || login == "" || domain == "" {
		return nil, fmt.Errorf("malformed mailbox address %q", address)
	}

	return &Mailbox{
		Address:  address,
		Login:    login,
		Domain:   domain,
		Provider: provider,
	}, nil
}

// MessageSummary is the normalized inbox listing entry. IDs are opaque
// and only meaningful for the mailbox/provider pairing that produced
// them.
type MessageSummary struct {
	ID      string
	From    string
	Subject string
	Date    string
}

// Message is a full message with its body resolved. Body is always
// populated, falling back to the NoBody placeholder.
type Message struct {
	MessageSummary
	Body string
}

// EqualSummaries reports whether two listings carry the same messages.
// Providers do not guarantee a stable order across calls, so the
// comparison is order-insensitive.
func EqualSummaries(a, b []MessageSummary) bool {
	if len(a) != len(b) {
		return false
	}

	seen := make(map[MessageSummary]int, len(a))
	for _, m := range a {
		seen[m]++
	}
	for _, m := range b {
		seen[m]--
		if seen[m] < 0 {
			return false
		}
	}

	return true
}
