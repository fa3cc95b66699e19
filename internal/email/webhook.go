package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	embedColorRed = 15158332
	maxEmbedField = 25
)

type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Notifier posts an alert to an operator chat channel.
type Notifier interface {
	Notify(ctx context.Context, title string, fields []Field) error
}

// WebhookNotifier posts Discord-style embeds to a chat webhook.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{url: url, httpClient: &http.Client{Timeout: 10 * time.Second}}
}

type webhookEmbed struct {
	Title  string  `json:"title"`
	Color  int     `json:"color"`
	Fields []Field `json:"fields"`
}

type webhookPayload struct {
	Content string         `json:"content"`
	Embeds  []webhookEmbed `json:"embeds"`
}

func (n *WebhookNotifier) Notify(ctx context.Context, title string, fields []Field) error {
	if n.url == "" {
		return ErrNotConfigured
	}
	if len(fields) > maxEmbedField {
		fields = fields[:maxEmbedField]
	}

	body, err := json.Marshal(webhookPayload{
		Content: "⚠️ **Fallo en envío de Email - Fallback activado**",
		Embeds:  []webhookEmbed{{Title: title, Color: embedColorRed, Fields: fields}},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}

var _ Notifier = (*WebhookNotifier)(nil)
