package infra

import (
	"log/slog"
	"net/http"
	"strings"

	"vivair-contato/contato/application"
)

const (
	ProviderResend   = "resend"
	ProviderSendGrid = "sendgrid"
)

// NotifyConfig reúne o que os canais precisam. Campos vazios desligam o
// canal correspondente (sem URL de webhook não há WhatsApp, sem chave não há e-mail).
type NotifyConfig struct {
	WebhookURL      string
	NotifyRecipient string

	EmailProvider  string
	ResendAPIKey   string
	ResendURL      string
	SendGridAPIKey string
	SendGridHost   string
	EmailFrom      string
	EmailTo        string

	HTTPClient *http.Client
}

// Channels monta os canais na ordem fixa: whatsapp, email.
func Channels(cfg NotifyConfig, logger *slog.Logger) []application.Channel {
	if logger == nil {
		logger = slog.Default()
	}

	wa := &WhatsAppWebhook{
		URL:       cfg.WebhookURL,
		Recipient: cfg.NotifyRecipient,
		Client:    cfg.HTTPClient,
	}

	var email application.Channel
	switch strings.ToLower(strings.TrimSpace(cfg.EmailProvider)) {
	case ProviderSendGrid:
		sg := NewSendGridEmail(SendGridConfig{
			APIKey: cfg.SendGridAPIKey,
			From:   cfg.EmailFrom,
			To:     cfg.EmailTo,
			Host:   cfg.SendGridHost,
		})
		if sg == nil {
			logger.Warn("EMAIL_PROVIDER=sendgrid sem SENDGRID_API_KEY; e-mail desligado")
			email = &ResendEmail{}
		} else {
			email = sg
		}
	case "", ProviderResend:
		email = &ResendEmail{
			APIKey: cfg.ResendAPIKey,
			URL:    cfg.ResendURL,
			From:   cfg.EmailFrom,
			To:     cfg.EmailTo,
			Client: cfg.HTTPClient,
		}
	default:
		logger.Warn("EMAIL_PROVIDER desconhecido; e-mail desligado", "provider", cfg.EmailProvider)
		email = &ResendEmail{}
	}

	logger.Info("notification channels",
		"whatsapp", wa.Enabled(),
		"email", email.Enabled(),
	)
	return []application.Channel{wa, email}
}
