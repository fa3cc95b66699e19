package email

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

type SMTPTransport struct {
	host     string
	port     int
	username string
	password string
	sender   Address
}

func NewSMTPTransport(host string, port int, username, password string, sender Address) *SMTPTransport {
	return &SMTPTransport{
		host:     host,
		port:     port,
		username: username,
		password: password,
		sender:   sender,
	}
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if t.host == "" {
		return ErrNotConfigured
	}

	m, err := t.compose(msg)
	if err != nil {
		return err
	}

	c, err := mail.NewClient(
		t.host,
		mail.WithPort(t.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(t.username),
		mail.WithPassword(t.password),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (t *SMTPTransport) compose(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(t.sender.Name, t.sender.Email); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	for _, to := range msg.To {
		if err := m.AddToFormat(to.Name, to.Email); err != nil {
			return nil, fmt.Errorf("to address: %w", err)
		}
	}
	if msg.ReplyTo != nil {
		if err := m.ReplyToFormat(msg.ReplyTo.Name, msg.ReplyTo.Email); err != nil {
			return nil, fmt.Errorf("reply-to address: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	for _, a := range msg.Attachments {
		if err := m.AttachReader(a.Name, bytes.NewReader(a.Content)); err != nil {
			return nil, fmt.Errorf("attach %s: %w", a.Name, err)
		}
	}
	return m, nil
}

var _ Transport = (*SMTPTransport)(nil)
