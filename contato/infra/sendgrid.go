package infra

import (
	"context"
	"fmt"

	"vivair-contato/contato/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridEmail envia o lead por e-mail via SendGrid (EMAIL_PROVIDER=sendgrid).
type SendGridEmail struct {
	client   *sendgrid.Client
	from     string
	fromName string
	to       string
}

type SendGridConfig struct {
	APIKey   string
	From     string
	FromName string
	To       string
	// Host troca o endpoint da API (testes). Vazio = api.sendgrid.com.
	Host string
}

// NewSendGridEmail devolve nil sem API key; um canal nil fica desligado.
func NewSendGridEmail(cfg SendGridConfig) *SendGridEmail {
	if cfg.APIKey == "" {
		return nil
	}

	client := sendgrid.NewSendClient(cfg.APIKey)
	if cfg.Host != "" {
		req := sendgrid.GetRequest(cfg.APIKey, "/v3/mail/send", cfg.Host)
		req.Method = "POST"
		client = &sendgrid.Client{Request: req}
	}

	return &SendGridEmail{
		client:   client,
		from:     orDefault(cfg.From, DefaultEmailFrom),
		fromName: orDefault(cfg.FromName, "Site VivAir"),
		to:       orDefault(cfg.To, DefaultEmailTo),
	}
}

func (s *SendGridEmail) Name() string  { return "email" }
func (s *SendGridEmail) Enabled() bool { return s != nil && s.client != nil }

func (s *SendGridEmail) Notify(ctx context.Context, lead domain.Lead) error {
	html, err := EmailHTML(lead)
	if err != nil {
		return fmt.Errorf("SendGrid failed: %w", err)
	}

	from := mail.NewEmail(s.fromName, s.from)
	to := mail.NewEmail("", s.to)
	message := mail.NewSingleEmail(from, Subject(lead), to, EmailText(lead), html)
	message.SetReplyTo(mail.NewEmail(lead.Nome, lead.Email))

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("SendGrid failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("SendGrid error: %d", resp.StatusCode)
	}
	return nil
}
