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

const (
	DefaultResendURL = "https://api.resend.com/emails"
	DefaultEmailFrom = "site@vivairtravel.com.br"
	DefaultEmailTo   = "reservas@vivairtravel.com.br"
)

// ResendEmail envia o lead por e-mail pela API HTTP do Resend.
// Sem API key o canal fica desligado.
type ResendEmail struct {
	APIKey string
	URL    string
	From   string
	To     string
	Client *http.Client
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

func (r *ResendEmail) Name() string  { return "email" }
func (r *ResendEmail) Enabled() bool { return r != nil && r.APIKey != "" }

func (r *ResendEmail) Notify(ctx context.Context, lead domain.Lead) error {
	html, err := EmailHTML(lead)
	if err != nil {
		return fmt.Errorf("Resend failed: %w", err)
	}

	body, err := json.Marshal(resendPayload{
		From:    orDefault(r.From, DefaultEmailFrom),
		To:      []string{orDefault(r.To, DefaultEmailTo)},
		Subject: Subject(lead),
		HTML:    html,
		Text:    EmailText(lead),
		ReplyTo: lead.Email,
	})
	if err != nil {
		return fmt.Errorf("Resend failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, orDefault(r.URL, DefaultResendURL), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("Resend failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.APIKey)

	resp, err := httpClient(r.Client).Do(req)
	if err != nil {
		return fmt.Errorf("Resend failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("Resend error: %d", resp.StatusCode)
	}
	return nil
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
