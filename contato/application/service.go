package application

import (
	"context"
	"log/slog"
	"time"

	"vivair-contato/contato/domain"
	rlapp "vivair-contato/middleware/ratelimit/application"
	rldomain "vivair-contato/middleware/ratelimit/domain"

	"github.com/google/uuid"
)

// Verdict é o desfecho de uma submissão do ponto de vista do chamador.
type Verdict int

const (
	// Accepted: lead válido, registrado e enviado aos canais (melhor esforço).
	Accepted Verdict = iota
	// Invalid: algum campo falhou na validação.
	Invalid
	// RateLimited: cliente passou do limite da janela. Visível ao usuário.
	RateLimited
	// SilentDrop: honeypot ou envio rápido demais. O chamador deve responder
	// exatamente como Accepted, sem avisos.
	SilentDrop
	// Malformed: corpo ilegível. Já conta na janela do cliente.
	Malformed
)

// Submission é o que o adapter HTTP entrega ao serviço.
type Submission struct {
	Draft     domain.Draft
	ClientKey string
	Method    string
	Path      string
	// Malformed indica que o corpo não pôde ser lido; Draft vem vazio.
	Malformed bool
}

type Result struct {
	Verdict Verdict
	// Reason é o motivo interno (rldomain.Reason*). Nunca vai para o cliente.
	Reason     string
	Errors     domain.FieldErrors
	Warnings   []string
	RetryAfter time.Duration
	LeadID     string
	Outcomes   []Outcome
}

// Observer recebe métricas do pipeline. Implementações devem ser seguras
// para uso concorrente; nil desliga.
type Observer interface {
	ObserveSubmission(reason string)
	ObserveNotification(channel string, status Status, d time.Duration)
}

// Service executa o pipeline de submissão do formulário de contato.
//
// Ordem: rate limit → corpo ilegível → honeypot → tempo mínimo → validação → registro e
// notificação. Cada etapa que barra a submissão interrompe as seguintes.
type Service struct {
	Limiter    rlapp.WindowService
	Guard      Guard
	Dispatcher Dispatcher
	Stats      rldomain.StatsStore
	Observer   Observer
	Logger     *slog.Logger

	Now   func() time.Time
	NewID func() string
}

func (s Service) Submit(ctx context.Context, sub Submission) Result {
	now := s.now()
	key := rldomain.Key(sub.ClientKey)
	if key == "" {
		key = rldomain.UnknownKey
	}

	if dec := s.Limiter.Decide(ctx, key); !dec.Allowed {
		s.record(ctx, sub, key, rldomain.ReasonRateLimited, now)
		return Result{Verdict: RateLimited, Reason: rldomain.ReasonRateLimited, RetryAfter: dec.RetryAfter}
	}

	if sub.Malformed {
		s.record(ctx, sub, key, rldomain.ReasonMalformed, now)
		return Result{Verdict: Malformed, Reason: rldomain.ReasonMalformed}
	}

	if s.Guard.Honeypot(sub.Draft) {
		s.record(ctx, sub, key, rldomain.ReasonHoneypot, now)
		return Result{Verdict: SilentDrop, Reason: rldomain.ReasonHoneypot}
	}
	if s.Guard.TooFast(sub.Draft, now) {
		s.record(ctx, sub, key, rldomain.ReasonTooFast, now)
		return Result{Verdict: SilentDrop, Reason: rldomain.ReasonTooFast}
	}

	lead, errs := domain.NewLead(sub.Draft, s.newID(), now)
	if len(errs) > 0 {
		s.record(ctx, sub, key, rldomain.ReasonInvalid, now)
		return Result{Verdict: Invalid, Reason: rldomain.ReasonInvalid, Errors: errs}
	}

	outcomes := s.Dispatcher.Dispatch(ctx, lead)
	warnings := Warnings(outcomes)
	if s.Observer != nil {
		for _, o := range outcomes {
			s.Observer.ObserveNotification(o.Channel, o.Status, o.Duration)
		}
	}

	// o log é o registro do lead: sem persistência, é ele que garante o recebimento
	s.logger().Info("lead received",
		"lead_id", lead.ID,
		"nome", lead.Nome,
		"email", lead.Email,
		"telefone", lead.TelefoneFormatado(),
		"porcque_len", len([]rune(lead.Porcque)),
		"warnings", warnings,
	)
	s.record(ctx, sub, key, rldomain.ReasonAccepted, now)

	return Result{
		Verdict:  Accepted,
		Reason:   rldomain.ReasonAccepted,
		Warnings: warnings,
		LeadID:   lead.ID,
		Outcomes: outcomes,
	}
}

// record registra o evento em stats/métricas/log. Erros são ignorados.
func (s Service) record(ctx context.Context, sub Submission, key rldomain.Key, reason string, at time.Time) {
	if s.Observer != nil {
		s.Observer.ObserveSubmission(reason)
	}
	if reason != rldomain.ReasonAccepted {
		s.logger().Info("submission blocked", "reason", reason, "client", string(key))
	}
	if s.Stats == nil {
		return
	}
	err := s.Stats.Record(ctx, rldomain.StatsEvent{
		Key:     key,
		Allowed: reason == rldomain.ReasonAccepted,
		Reason:  reason,
		Method:  sub.Method,
		Path:    sub.Path,
		At:      at,
	})
	if err != nil {
		s.logger().Warn("stats record failed", "reason", reason, "error", err)
	}
}

func (s Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
