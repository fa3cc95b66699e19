package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

type BrevoTransport struct {
	url        string
	apiKey     string
	sender     Address
	httpClient *http.Client
}

func NewBrevoTransport(url, apiKey string, sender Address) *BrevoTransport {
	return &BrevoTransport{
		url:        url,
		apiKey:     apiKey,
		sender:     sender,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type brevoAttachment struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type brevoPayload struct {
	Sender      Address           `json:"sender"`
	To          []Address         `json:"to"`
	ReplyTo     *Address          `json:"replyTo,omitempty"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	Attachment  []brevoAttachment `json:"attachment,omitempty"`
}

func (t *BrevoTransport) Send(ctx context.Context, msg Message) error {
	if t.apiKey == "" {
		return ErrNotConfigured
	}

	payload := brevoPayload{
		Sender:      t.sender,
		To:          msg.To,
		ReplyTo:     msg.ReplyTo,
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
	}
	for _, a := range msg.Attachments {
		payload.Attachment = append(payload.Attachment, brevoAttachment{
			Name:    a.Name,
			Content: base64.StdEncoding.EncodeToString(a.Content),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal brevo payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("api-key", t.apiKey)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("brevo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("[email] brevo rejected message: status=%d body=%s", resp.StatusCode, detail)
		return fmt.Errorf("brevo status %d", resp.StatusCode)
	}
	return nil
}

var _ Transport = (*BrevoTransport)(nil)
