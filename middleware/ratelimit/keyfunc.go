package ratelimit

import (
	"net"
	"net/http"
	"strings"

	"vivair-contato/middleware/ratelimit/domain"
)

type KeyFunc func(r *http.Request) string

// DefaultKeyFunc extrai a chave do cliente, nesta ordem:
//
//  1. header dedicado (keyHeader), se configurado
//  2. primeiro IP do X-Forwarded-For (se trustProxy)
//  3. X-Real-IP (se trustProxy)
//  4. host do RemoteAddr
//  5. "unknown" (bucket compartilhado)
//
// Só confie nos headers de proxy quando o serviço roda atrás de um proxy que
// os sobrescreve; caso contrário o cliente escolhe a própria chave.
func DefaultKeyFunc(keyHeader string, trustProxy bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustProxy {
			// primeiro IP do X-Forwarded-For é o cliente original
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
			if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
				return ip
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if v := strings.TrimSpace(r.RemoteAddr); v != "" {
			return v
		}
		return string(domain.UnknownKey)
	}
}
