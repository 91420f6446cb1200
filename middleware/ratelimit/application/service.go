package application

import (
	"context"
	"log/slog"
	"time"

	"vivair-contato/middleware/ratelimit/domain"
)

// Service concentra a regra do token bucket geral do site.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type Service struct {
	Store      domain.LimiterStore
	RetryAfter time.Duration
}

func (s Service) Decide(key domain.Key) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}
	if s.RetryAfter <= 0 {
		s.RetryAfter = 1 * time.Second
	}

	lim := s.Store.Get(key)
	if lim == nil {
		return domain.Decision{Allowed: true}
	}
	if lim.Allow() {
		return domain.Decision{Allowed: true}
	}
	return domain.Decision{Allowed: false, RetryAfter: s.RetryAfter}
}

// WindowService aplica o limite por janela fixa (ex: 3 envios por hora por IP).
//
// Ordem: Check; se ainda cabe, Record. Requisições negadas não contam.
// Erro do store libera a requisição (fail open) e é logado.
type WindowService struct {
	Limiter domain.WindowLimiter
	Logger  *slog.Logger
	Now     func() time.Time
}

func (s WindowService) Decide(ctx context.Context, key domain.Key) domain.Decision {
	if s.Limiter == nil {
		return domain.Decision{Allowed: true}
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	win, err := s.Limiter.Check(ctx, key)
	if err != nil {
		s.warn("window check failed", key, err)
		return domain.Decision{Allowed: true}
	}
	if win.Exhausted() {
		return domain.Decision{Allowed: false, RetryAfter: retryAfter(win.ResetAt, now())}
	}

	if _, err := s.Limiter.Record(ctx, key); err != nil {
		s.warn("window record failed", key, err)
	}
	return domain.Decision{Allowed: true}
}

func (s WindowService) warn(msg string, key domain.Key, err error) {
	if s.Logger == nil {
		return
	}
	s.Logger.Warn(msg, "key", string(key), "error", err)
}

// retryAfter arredonda para cima em segundos, mínimo 1s.
func retryAfter(resetAt, now time.Time) time.Duration {
	d := resetAt.Sub(now)
	if d <= 0 {
		return time.Second
	}
	if t := d.Truncate(time.Second); t != d {
		return t + time.Second
	}
	return d
}
