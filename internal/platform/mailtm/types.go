package mailtm

import (
	"strings"

	"github.com/axeeeh/tempmail/internal/tempmail"
)

type addressJSON struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type messageSummaryJSON struct {
	ID        string      `json:"id"`
	From      addressJSON `json:"from"`
	Subject   string      `json:"subject"`
	Intro     string      `json:"intro"`
	CreatedAt string      `json:"createdAt"`
}

// listResponse is the hydra envelope mail.tm wraps collections in.
type listResponse struct {
	Members []messageSummaryJSON `json:"hydra:member"`
}

type messageJSON struct {
	messageSummaryJSON
	Text string   `json:"text"`
	HTML []string `json:"html"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type domainJSON struct {
	Domain string `json:"domain"`
}

type domainListResponse struct {
	Members []domainJSON `json:"hydra:member"`
}

func (m messageSummaryJSON) summary() tempmail.MessageSummary {
	s := tempmail.MessageSummary{
		ID:      m.ID,
		From:    m.From.Address,
		Subject: m.Subject,
		Date:    m.CreatedAt,
	}
	if s.From == "" {
		s.From = tempmail.UnknownSender
	}
	if s.Subject == "" {
		s.Subject = tempmail.NoSubject
	}
	return s
}

// message resolves the body by fixed preference: plain text, then the
// HTML parts, then the intro preview, then the placeholder.
func (m messageJSON) message() *tempmail.Message {
	body := m.Text
	if body == "" && len(m.HTML) > 0 {
		body = strings.Join(m.HTML, "\n")
	}
	if body == "" {
		body = m.Intro
	}
	if body == "" {
		body = tempmail.NoBody
	}

	return &tempmail.Message{
		MessageSummary: m.messageSummaryJSON.summary(),
		Body:           body,
	}
}
