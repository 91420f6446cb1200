package domain

import (
	"context"
	"time"
)

// Motivos registrados junto com a decisão. Vazio = decisão do token bucket geral.
const (
	ReasonRateLimited = "rate_limited"
	ReasonHoneypot    = "honeypot"
	ReasonTooFast     = "too_fast"
	ReasonInvalid     = "invalid"
	ReasonMalformed   = "malformed"
	ReasonAccepted    = "accepted"
)

// StatsEvent representa um evento de decisão (rate limit ou anti-bot).
//
// Ele é "agnóstico de HTTP": Method/Path são strings genéricas.
// Eventos de honeypot/timing nunca são revelados ao cliente, mas ficam
// registrados aqui para observabilidade interna.
//
// Observação: cuidado com cardinalidade (Key/Path sem controle pode
// explodir o número de séries/chaves em Redis/Prometheus).
type StatsEvent struct {
	Key     Key
	Allowed bool
	Reason  string

	Method string
	Path   string

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas.
//
// Implementações podem armazenar em Redis ou memória.
// Quem chama trata erro como best-effort (não derruba o request).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
