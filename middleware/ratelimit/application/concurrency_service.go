package application

import (
	"context"
	"log/slog"
	"time"

	"vivair-contato/middleware/ratelimit/domain"
)

// ConcurrencyService segura o número de submissões processadas ao mesmo tempo.
type ConcurrencyService struct {
	Pool domain.SlotPool
	// AcquireTimeout <= 0 espera enquanto a requisição estiver viva.
	AcquireTimeout time.Duration
	Logger         *slog.Logger
}

// Acquire reserva uma vaga. Sem Pool sempre libera.
func (s ConcurrencyService) Acquire(ctx context.Context) (func(), bool) {
	if s.Pool == nil {
		return func() {}, true
	}

	acqCtx := ctx
	if s.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		acqCtx, cancel = context.WithTimeout(ctx, s.AcquireTimeout)
		defer cancel()
	}

	release, ok := s.Pool.Acquire(acqCtx)
	if !ok && s.Logger != nil && ctx.Err() == nil {
		s.Logger.Warn("concurrency limit reached", "acquire_timeout", s.AcquireTimeout.String())
	}
	return release, ok
}
