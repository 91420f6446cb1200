package infra

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"vivair-contato/contato/domain"
)

// Subject é o assunto dos e-mails de novo lead.
func Subject(lead domain.Lead) string {
	return "✦ Nova Whycation: " + lead.Nome
}

// WhatsAppText monta o texto (formatação do WhatsApp: *negrito*, _itálico_).
func WhatsAppText(lead domain.Lead) string {
	var b strings.Builder
	b.WriteString("*✦ Nova Whycation — VivAir*\n\n")
	fmt.Fprintf(&b, "*Nome:* %s\n", lead.Nome)
	fmt.Fprintf(&b, "*E-mail:* %s\n", lead.Email)
	fmt.Fprintf(&b, "*Telefone:* %s\n\n", lead.TelefoneFormatado())
	fmt.Fprintf(&b, "*Porquê (Motivação):*\n%s\n\n", lead.Porcque)
	b.WriteString("_Responda para iniciar o atendimento._")
	return b.String()
}

var emailTemplate = template.Must(template.New("lead").Parse(`<div style="font-family:sans-serif;max-width:560px;margin:0 auto;padding:32px 24px;background:#0a1f44;color:#f5f0e8;border-radius:12px">
  <h2 style="color:#c8a96e;margin-bottom:24px">✦ Nova Whycation — VivAir</h2>
  <p><strong>Nome:</strong> {{.Nome}}</p>
  <p><strong>E-mail:</strong> {{.Email}}</p>
  <p><strong>Telefone:</strong> {{.Telefone}}</p>
  <hr style="border-color:rgba(200,169,110,0.25);margin:20px 0"/>
  <p><strong>Porquê (Motivação):</strong></p>
  <blockquote style="border-left:3px solid #c8a96e;margin:0;padding:12px 16px;color:rgba(245,240,232,0.8)">{{.Porcque}}</blockquote>
</div>`))

// EmailHTML renderiza o corpo HTML do e-mail. Os valores do lead são escapados.
func EmailHTML(lead domain.Lead) (string, error) {
	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, struct {
		Nome, Email, Telefone, Porcque string
	}{lead.Nome, lead.Email, lead.TelefoneFormatado(), lead.Porcque})
	if err != nil {
		return "", fmt.Errorf("render email: %w", err)
	}
	return buf.String(), nil
}

// EmailText é a versão texto puro do e-mail.
func EmailText(lead domain.Lead) string {
	return fmt.Sprintf("Nome: %s\nE-mail: %s\nTelefone: %s\n\nPorquê (Motivação):\n%s\n",
		lead.Nome, lead.Email, lead.TelefoneFormatado(), lead.Porcque)
}
