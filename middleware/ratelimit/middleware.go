package ratelimit

import (
	"net/http"
	"time"

	"vivair-contato/middleware/ratelimit/application"
	"vivair-contato/middleware/ratelimit/domain"
)

// Mensagem padrão do 429 do token bucket geral.
const MsgTooManyRequests = "Muitas requisições. Aguarde alguns segundos e tente novamente."

type Options struct {
	Store domain.LimiterStore
	Stats domain.StatsStore
	// KeyFn nil usa o RemoteAddr (sem confiar em headers de proxy).
	KeyFn               KeyFunc
	RejectStatus        int
	RetryAfter          time.Duration
	AddRateLimitHeaders bool
}

type rateInfo interface {
	RPS() float64
	Burst() int
}

// Middleware aplica o token bucket geral por cliente em todas as rotas.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusTooManyRequests
	}
	if opts.RetryAfter == 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc("", false)
	}

	svc := application.Service{
		Store:      opts.Store,
		RetryAfter: opts.RetryAfter,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			if opts.AddRateLimitHeaders {
				w.Header().Set("X-RateLimit-Key", key)
				if ri, ok := opts.Store.(rateInfo); ok {
					w.Header().Set("X-RateLimit-RPS", formatFloat(ri.RPS()))
					w.Header().Set("X-RateLimit-Burst", formatInt(ri.Burst()))
				}
			}

			dec := svc.Decide(domain.Key(key))
			if opts.Stats != nil && !dec.Allowed {
				// só negações: permitir tudo inundaria o store
				_ = opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:     domain.Key(key),
					Allowed: false,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      time.Now(),
				})
			}
			if !dec.Allowed {
				w.Header().Set("Retry-After", RetryAfterSeconds(dec.RetryAfter))
				WriteError(w, opts.RejectStatus, MsgTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
