package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Formato sintático apenas: x@y.zz. Não consulta DNS.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

const minPhoneDigits = 8

const (
	MsgEmailInvalido = "Informe um e-mail válido – ex: nome@exemplo.com"
	MsgTelefoneCurto = "Número muito curto. Verifique o telefone."
	msgObrigatorio   = "%s é obrigatório."
	msgMaxCaracteres = "Máximo de %d caracteres atingido."
)

// FieldErrors mapeia campo → mensagem. Vazio significa válido.
type FieldErrors map[Field]string

// First devolve o primeiro erro na ordem de Fields.
func (e FieldErrors) First() (Field, string) {
	for _, f := range Fields {
		if msg, ok := e[f]; ok {
			return f, msg
		}
	}
	return "", ""
}

// IsEmailValid aplica o padrão de e-mail ao valor já aparado.
func IsEmailValid(v string) bool { return emailPattern.MatchString(v) }

// ValidateField devolve a mensagem de erro do campo ou "" se válido.
//
// Ordem: obrigatório, formato (e-mail/telefone), tamanho. Valor vazio nunca
// chega às checagens de formato. O tamanho é contado em caracteres no valor aparado.
func ValidateField(f Field, raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return fmt.Sprintf(msgObrigatorio, f.Label())
	}

	switch f {
	case FieldEmail:
		if !IsEmailValid(v) {
			return MsgEmailInvalido
		}
	case FieldTelefone:
		if len(Digits(v)) < minPhoneDigits {
			return MsgTelefoneCurto
		}
	}

	if limit, ok := MaxLen[f]; ok && utf8.RuneCountInString(v) > limit {
		return fmt.Sprintf(msgMaxCaracteres, limit)
	}
	return ""
}

// Validate roda ValidateField em todos os campos.
func Validate(d Draft) FieldErrors {
	errs := FieldErrors{}
	for _, f := range Fields {
		if msg := ValidateField(f, d.value(f)); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}
