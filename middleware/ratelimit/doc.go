// Package ratelimit fornece adapters HTTP (net/http) para rate limit e limite de concorrência.
//
// Camadas:
//
//   - domain: contratos e tipos (sem net/http)
//   - application: casos de uso (decisão allow/deny, janela fixa, acquire/timeout)
//   - infra: token bucket, janelas em memória/Redis, estatísticas, semáforo
//   - ratelimit (este pacote): middlewares HTTP, extração de chave, respostas JSON
//
// Fluxo no site:
//
//  1. Extrai a chave do cliente (X-Forwarded-For / X-Real-IP / RemoteAddr)
//  2. Chama a camada application para obter a decisão
//  3. Se bloqueado, responde 429 (rate limit) ou 503 (concorrência) com {"error": ...}
//  4. Se permitido, chama o próximo handler (API de contato ou proxy do front-end)
//
// O limite por janela do formulário (3 envios/hora) não é um middleware: ele
// roda dentro do pipeline de submissão, antes do honeypot e da validação.
package ratelimit
