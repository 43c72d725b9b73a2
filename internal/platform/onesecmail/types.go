package onesecmail

import (
	"encoding/json"

	"github.com/axeeeh/tempmail/internal/tempmail"
)

type messageSummaryJSON struct {
	ID      json.Number `json:"id"`
	From    string      `json:"from"`
	Subject string      `json:"subject"`
	Date    string      `json:"date"`
}

type messageJSON struct {
	messageSummaryJSON
	TextBody string `json:"textBody"`
	HTMLBody string `json:"htmlBody"`
}

func (m messageSummaryJSON) summary() tempmail.MessageSummary {
	s := tempmail.MessageSummary{
		ID:      m.ID.String(),
		From:    m.From,
		Subject: m.Subject,
		Date:    m.Date,
	}
	if s.From == "" {
		s.From = tempmail.UnknownSender
	}
	if s.Subject == "" {
		s.Subject = tempmail.NoSubject
	}
	return s
}

// message resolves the body by fixed preference: plain text first, then
// the HTML body, then the placeholder. Extraction is total.
func (m messageJSON) message() *tempmail.Message {
	body := m.TextBody
	if body == "" {
		body = m.HTMLBody
	}
	if body == "" {
		body = tempmail.NoBody
	}

	return &tempmail.Message{
		MessageSummary: m.messageSummaryJSON.summary(),
		Body:           body,
	}
}
