package domain

import (
	"strings"
	"time"
)

// Field identifica um campo do formulário pelo nome usado no JSON.
type Field string

const (
	FieldNome     Field = "nome"
	FieldEmail    Field = "email"
	FieldTelefone Field = "telefone"
	FieldPorcque  Field = "porcque"
)

// Fields lista os campos na ordem em que são validados e exibidos.
var Fields = []Field{FieldNome, FieldEmail, FieldTelefone, FieldPorcque}

// MaxLen é o limite de caracteres por campo.
var MaxLen = map[Field]int{
	FieldNome:     80,
	FieldEmail:    120,
	FieldTelefone: 25,
	FieldPorcque:  600,
}

var labels = map[Field]string{
	FieldNome:     "Nome",
	FieldEmail:    "E-mail",
	FieldTelefone: "Telefone / WhatsApp",
	FieldPorcque:  "Mensagem",
}

// Label é o rótulo exibido ao usuário.
func (f Field) Label() string {
	if l, ok := labels[f]; ok {
		return l
	}
	return string(f)
}

// Draft é a submissão como chegou do cliente, antes de qualquer checagem.
type Draft struct {
	Nome     string
	Email    string
	Telefone string
	Porcque  string

	// Honeypot deve vir vazio; só robôs preenchem.
	Honeypot string
	// MountedAt é o instante em que o formulário foi exibido (0 = não informado).
	MountedAt time.Time
}

func (d Draft) value(f Field) string {
	switch f {
	case FieldNome:
		return d.Nome
	case FieldEmail:
		return d.Email
	case FieldTelefone:
		return d.Telefone
	case FieldPorcque:
		return d.Porcque
	}
	return ""
}

// Lead é a submissão validada e congelada. Existe apenas durante a requisição.
type Lead struct {
	ID         string
	Nome       string
	Email      string
	Telefone   string
	Porcque    string
	ReceivedAt time.Time
}

// TelefoneFormatado devolve o telefone com a máscara de exibição.
func (l Lead) TelefoneFormatado() string { return FormatPhone(l.Telefone) }

// NewLead valida o rascunho e, se tudo estiver certo, congela os valores já aparados.
func NewLead(d Draft, id string, now time.Time) (Lead, FieldErrors) {
	if errs := Validate(d); len(errs) > 0 {
		return Lead{}, errs
	}
	return Lead{
		ID:         id,
		Nome:       strings.TrimSpace(d.Nome),
		Email:      strings.TrimSpace(d.Email),
		Telefone:   strings.TrimSpace(d.Telefone),
		Porcque:    strings.TrimSpace(d.Porcque),
		ReceivedAt: now,
	}, nil
}
