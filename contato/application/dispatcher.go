package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vivair-contato/contato/domain"
)

// DefaultNotifyTimeout limita cada chamada de notificação.
const DefaultNotifyTimeout = 8 * time.Second

// Channel é um canal de notificação da equipe (webhook de WhatsApp, e-mail...).
//
// Notify deve respeitar o ctx; o texto do erro vira o aviso devolvido ao
// chamador (ex: "WhatsApp webhook error: 500").
type Channel interface {
	Name() string
	Enabled() bool
	Notify(ctx context.Context, lead domain.Lead) error
}

type Status string

const (
	Delivered Status = "delivered"
	Skipped   Status = "skipped"
	Failed    Status = "failed"
)

// Outcome é o resultado de um canal para um lead.
type Outcome struct {
	Channel  string
	Status   Status
	Reason   string
	Duration time.Duration
}

// Dispatcher entrega o lead para todos os canais, de forma independente.
//
// Falha de um canal não bloqueia os outros nem a resposta ao usuário:
// Dispatch sempre retorna, com um Outcome por canal, na ordem de Channels.
// O cancelamento de ctx (cliente desconectou) não interrompe as entregas;
// só Timeout limita cada chamada.
type Dispatcher struct {
	Channels []Channel
	Timeout  time.Duration
	Logger   *slog.Logger
}

func (d Dispatcher) Dispatch(ctx context.Context, lead domain.Lead) []Outcome {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultNotifyTimeout
	}
	ctx = context.WithoutCancel(ctx)

	out := make([]Outcome, len(d.Channels))
	var wg sync.WaitGroup
	for i, ch := range d.Channels {
		if ch == nil || !ch.Enabled() {
			name := "unknown"
			if ch != nil {
				name = ch.Name()
			}
			out[i] = Outcome{Channel: name, Status: Skipped}
			continue
		}

		wg.Add(1)
		go func(i int, ch Channel) {
			defer wg.Done()
			out[i] = d.notify(ctx, ch, lead, timeout)
		}(i, ch)
	}
	wg.Wait()

	return out
}

func (d Dispatcher) notify(ctx context.Context, ch Channel, lead domain.Lead, timeout time.Duration) (o Outcome) {
	o = Outcome{Channel: ch.Name()}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.Status = Failed
			o.Reason = fmt.Sprintf("%s failed: panic: %v", ch.Name(), r)
		}
		o.Duration = time.Since(start)
		if o.Status == Failed && d.Logger != nil {
			d.Logger.Warn("notification failed",
				"channel", o.Channel,
				"lead_id", lead.ID,
				"reason", o.Reason,
				"duration_ms", o.Duration.Milliseconds(),
			)
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := ch.Notify(callCtx, lead); err != nil {
		o.Status = Failed
		o.Reason = err.Error()
		return o
	}
	o.Status = Delivered
	return o
}

// Warnings devolve os motivos dos canais que falharam, na ordem dos canais.
// Nil quando nada falhou.
func Warnings(outcomes []Outcome) []string {
	var w []string
	for _, o := range outcomes {
		if o.Status == Failed {
			w = append(w, o.Reason)
		}
	}
	return w
}
