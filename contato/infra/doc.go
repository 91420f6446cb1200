// Package infra contém os canais de notificação do formulário de contato:
// webhook de WhatsApp e e-mail (Resend ou SendGrid).
package infra
