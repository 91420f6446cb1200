package domain

import "strings"

const brCountryCode = "55"

// Digits remove tudo que não é dígito ASCII.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// FormatPhone aplica a máscara de exibição +55 (DD) NNNNN-NNNN.
//
// A máscara é refeita do zero a cada chamada a partir dos dígitos, então
// funciona tecla a tecla: cada grupo de pontuação só aparece quando há
// dígitos para ele. Números que não são brasileiros (ou não começam com 55)
// ficam em formato livre: "+" seguido dos dígitos, ou o texto original,
// sempre limitado ao tamanho máximo do campo.
func FormatPhone(raw string) string {
	digits := Digits(raw)

	if strings.HasPrefix(digits, brCountryCode) && len(digits) <= 13 {
		d := digits[len(brCountryCode):]

		var b strings.Builder
		b.WriteString("+55")
		if len(d) > 0 {
			b.WriteString(" (")
			b.WriteString(d[:min(len(d), 2)])
		}
		if len(d) > 2 {
			b.WriteString(") ")
			b.WriteString(d[2:min(len(d), 7)])
		}
		if len(d) > 7 {
			b.WriteString("-")
			b.WriteString(d[7:min(len(d), 11)])
		}
		return b.String()
	}

	limit := MaxLen[FieldTelefone]
	if strings.HasPrefix(raw, "+") {
		return "+" + truncate(digits, limit-1)
	}
	return truncateRunes(raw, limit)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
