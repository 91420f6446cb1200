package ratelimit

import (
	"log/slog"
	"net/http"
	"time"

	"vivair-contato/middleware/ratelimit/application"
	"vivair-contato/middleware/ratelimit/domain"
	"vivair-contato/middleware/ratelimit/infra"
)

const MsgBusy = "Serviço ocupado no momento. Tente novamente em instantes."

type ConcurrencyOptions struct {
	Max            int
	RejectStatus   int
	AcquireTimeout time.Duration
	// Pool substitui o semáforo criado a partir de Max (ex: para expor a ocupação).
	Pool   domain.SlotPool
	Logger *slog.Logger
}

// ConcurrencyMiddleware limita quantas requisições o handler atende ao mesmo tempo.
// Sem Pool e com Max <= 0 não há limite.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Pool == nil && opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.Pool == nil {
		opts.Pool = infra.NewChanPool(opts.Max)
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}

	svc := application.ConcurrencyService{
		Pool:           opts.Pool,
		AcquireTimeout: opts.AcquireTimeout,
		Logger:         opts.Logger,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, ok := svc.Acquire(r.Context())
			if !ok {
				WriteError(w, opts.RejectStatus, MsgBusy)
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
