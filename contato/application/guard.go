package application

import (
	"strings"
	"time"

	"vivair-contato/contato/domain"
)

// DefaultMinElapsed é o tempo mínimo entre exibir o formulário e enviá-lo.
// Ninguém lê, preenche e envia em menos que isso.
const DefaultMinElapsed = 1500 * time.Millisecond

// Guard reúne as heurísticas anti-robô que dependem só do payload.
// O rate limit fica fora daqui porque depende do cliente, não do conteúdo.
type Guard struct {
	MinElapsed time.Duration
}

// Honeypot indica que o campo escondido veio preenchido.
func (g Guard) Honeypot(d domain.Draft) bool {
	return strings.TrimSpace(d.Honeypot) != ""
}

// TooFast indica envio mais rápido que MinElapsed desde que o formulário
// foi exibido. Sem timestamp (_t ausente) não há o que checar.
// Timestamp no futuro também conta como rápido demais.
func (g Guard) TooFast(d domain.Draft, now time.Time) bool {
	if d.MountedAt.IsZero() {
		return false
	}
	threshold := g.MinElapsed
	if threshold <= 0 {
		threshold = DefaultMinElapsed
	}
	return now.Sub(d.MountedAt) < threshold
}
