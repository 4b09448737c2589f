package mail

import "context"

//go:generate mockgen -destination mocks/mailer_mock.go -package mocks prelaunch/internal/mail Mailer

// Message is one outbound email with both plain-text and HTML bodies.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers a message. Implementations decide transport; the
// registration handler only cares whether delivery succeeded.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
