package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"vivair-contato/contato/domain"
)

// DefaultNotifyPhone recebe as notificações quando WA_NOTIFY_PHONE não está definido.
const DefaultNotifyPhone = "5521996832196"

// WhatsAppWebhook envia o lead para um webhook (ex: automação do WhatsApp Business).
// Sem URL o canal fica desligado.
type WhatsAppWebhook struct {
	URL       string
	Recipient string
	Client    *http.Client
}

type whatsAppPayload struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (w *WhatsAppWebhook) Name() string  { return "whatsapp" }
func (w *WhatsAppWebhook) Enabled() bool { return w != nil && w.URL != "" }

func (w *WhatsAppWebhook) Notify(ctx context.Context, lead domain.Lead) error {
	recipient := w.Recipient
	if recipient == "" {
		recipient = DefaultNotifyPhone
	}

	body, err := json.Marshal(whatsAppPayload{Phone: recipient, Message: WhatsAppText(lead)})
	if err != nil {
		return fmt.Errorf("WhatsApp webhook failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("WhatsApp webhook failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient(w.Client).Do(req)
	if err != nil {
		return fmt.Errorf("WhatsApp webhook failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("WhatsApp webhook error: %d", resp.StatusCode)
	}
	return nil
}

func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return http.DefaultClient
}
