package domain

// Camada de domínio do rate limit.
//
// Regras e contratos (interfaces/tipos) sem dependência de net/http.

import (
	"context"
	"time"
)

type Key string

// UnknownKey é o bucket compartilhado por clientes sem endereço identificável.
// Todos caem no mesmo contador (o mais restritivo possível).
const UnknownKey Key = "unknown"

// Limiter representa algo que pode decidir se uma ação é permitida agora.
//
// A infra usa token-bucket (golang.org/x/time/rate) para a proteção geral do site.
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter por chave (ex: IP, API key, usuário).
// A implementação pode manter cache, TTL, etc.
type LimiterStore interface {
	Get(Key) Limiter
}

type Decision struct {
	Allowed bool
	// RetryAfter é o valor a ser retornado em Retry-After quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}

// Window é o estado de uma janela fixa de contagem para uma chave.
//
// Invariante: Count nunca passa de Limit dentro da mesma janela. Depois de
// ResetAt, a próxima requisição abre uma janela nova com Count = 1.
type Window struct {
	Count   int
	Limit   int
	ResetAt time.Time
}

// Exhausted indica se a janela já atingiu o teto.
func (w Window) Exhausted() bool { return w.Limit > 0 && w.Count >= w.Limit }

// WindowLimiter conta requisições por chave em janelas fixas (ex: 3 por hora).
//
// Check apenas consulta; Record incrementa. O par check→record não é atômico
// entre instâncias: com várias réplicas o limite é "melhor esforço". Para
// limite compartilhado use a implementação em Redis.
type WindowLimiter interface {
	Check(ctx context.Context, key Key) (Window, error)
	Record(ctx context.Context, key Key) (Window, error)
}
