package email

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by a transport that lacks credentials.
var ErrNotConfigured = errors.New("email transport not configured")

type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type Attachment struct {
	Name        string
	ContentType string
	Content     []byte
}

type Message struct {
	To          []Address
	ReplyTo     *Address
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Transport delivers a composed message.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}
