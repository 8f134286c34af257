// Package mailer composes report emails and hands them to an SMTP relay.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ErrNoRecipients is returned when a recipient field holds no address.
var ErrNoRecipients = errors.New("no recipients")

// Attachment is an in-memory file attached to a message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Envelope is a message before recipient parsing. Recipients is the raw
// comma-separated field as stored on the company.
type Envelope struct {
	Recipients  string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Message is a message ready for transport.
type Message struct {
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Sender delivers one message in one relay session.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ParseRecipients splits a comma-separated address field, trimming
// whitespace and dropping empty entries.
func ParseRecipients(field string) []string {
	parts := strings.Split(field, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Dispatcher validates envelopes and sends them through a Sender.
type Dispatcher struct {
	sender Sender
	log    zerolog.Logger
}

// NewDispatcher returns a Dispatcher sending through s.
func NewDispatcher(s Sender, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{sender: s, log: log}
}

// Dispatch sends env to every parsed recipient at once. It makes a single
// attempt; transport failures are returned wrapped and left for the caller
// to report.
func (d *Dispatcher) Dispatch(ctx context.Context, env Envelope) error {
	to := ParseRecipients(env.Recipients)
	if len(to) == 0 {
		return ErrNoRecipients
	}

	err := d.sender.Send(ctx, Message{
		To:          to,
		Subject:     env.Subject,
		Body:        env.Body,
		Attachments: env.Attachments,
	})
	if err != nil {
		d.log.Debug().
			Err(err).
			Strs("to", to).
			Int("attachments", len(env.Attachments)).
			Msg("email delivery failed")
		return fmt.Errorf("send email: %w", err)
	}

	d.log.Info().
		Strs("to", to).
		Int("attachments", len(env.Attachments)).
		Msg("email sent")
	return nil
}
