package application

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"vivair-contato/contato/domain"

	"github.com/stretchr/testify/assert"
)

// fakeChannel registra chamadas e devolve o erro configurado.
type fakeChannel struct {
	name    string
	enabled bool
	err     error
	block   bool
	panics  bool
	// respectCtx devolve ctx.Err() se o contexto já estiver encerrado
	respectCtx bool
	calls      atomic.Int32
}

func (f *fakeChannel) Name() string  { return f.name }
func (f *fakeChannel) Enabled() bool { return f.enabled }

func (f *fakeChannel) Notify(ctx context.Context, _ domain.Lead) error {
	f.calls.Add(1)
	if f.panics {
		panic("boom")
	}
	if f.respectCtx && ctx.Err() != nil {
		return errors.New(f.name + " failed: " + ctx.Err().Error())
	}
	if f.block {
		<-ctx.Done()
		return errors.New(f.name + " failed: " + ctx.Err().Error())
	}
	return f.err
}

func TestDispatcher_AllChannelsIndependent(t *testing.T) {
	wa := &fakeChannel{name: "whatsapp", enabled: true, err: errors.New("WhatsApp webhook error: 500")}
	mail := &fakeChannel{name: "email", enabled: true}

	out := Dispatcher{Channels: []Channel{wa, mail}}.Dispatch(context.Background(), domain.Lead{ID: "l1"})

	assert.Len(t, out, 2)
	assert.Equal(t, Failed, out[0].Status)
	assert.Equal(t, "WhatsApp webhook error: 500", out[0].Reason)
	assert.Equal(t, Delivered, out[1].Status)
	assert.EqualValues(t, 1, mail.calls.Load())
	assert.Equal(t, []string{"WhatsApp webhook error: 500"}, Warnings(out))
}

func TestDispatcher_DisabledChannelsAreSkippedNotFailed(t *testing.T) {
	wa := &fakeChannel{name: "whatsapp"}
	mail := &fakeChannel{name: "email"}

	out := Dispatcher{Channels: []Channel{wa, mail}}.Dispatch(context.Background(), domain.Lead{})

	for _, o := range out {
		assert.Equal(t, Skipped, o.Status)
	}
	assert.Zero(t, wa.calls.Load())
	assert.Nil(t, Warnings(out))
}

func TestDispatcher_TimeoutIsChannelFailure(t *testing.T) {
	slow := &fakeChannel{name: "whatsapp", enabled: true, block: true}
	fast := &fakeChannel{name: "email", enabled: true}

	start := time.Now()
	out := Dispatcher{Channels: []Channel{slow, fast}, Timeout: 20 * time.Millisecond}.
		Dispatch(context.Background(), domain.Lead{})

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, Failed, out[0].Status)
	assert.Contains(t, out[0].Reason, "deadline exceeded")
	assert.Equal(t, Delivered, out[1].Status)
}

func TestDispatcher_CallerCancellationDoesNotAbortDelivery(t *testing.T) {
	wa := &fakeChannel{name: "whatsapp", enabled: true, respectCtx: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := Dispatcher{Channels: []Channel{wa}, Timeout: time.Second}.Dispatch(ctx, domain.Lead{ID: "x"})

	assert.Equal(t, Delivered, out[0].Status)
	assert.Nil(t, Warnings(out))
	assert.Equal(t, int32(1), wa.calls.Load())
}

func TestDispatcher_PanicIsContained(t *testing.T) {
	bad := &fakeChannel{name: "whatsapp", enabled: true, panics: true}
	good := &fakeChannel{name: "email", enabled: true}

	out := Dispatcher{Channels: []Channel{bad, good}}.Dispatch(context.Background(), domain.Lead{})

	assert.Equal(t, Failed, out[0].Status)
	assert.Contains(t, out[0].Reason, "panic")
	assert.Equal(t, Delivered, out[1].Status)
}

func TestGuard_Honeypot(t *testing.T) {
	g := Guard{}
	assert.False(t, g.Honeypot(domain.Draft{Honeypot: ""}))
	assert.False(t, g.Honeypot(domain.Draft{Honeypot: "   "}))
	assert.True(t, g.Honeypot(domain.Draft{Honeypot: "http://spam"}))
}

func TestGuard_TooFast(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g := Guard{}

	assert.False(t, g.TooFast(domain.Draft{}, now), "missing timestamp is not rejected")
	assert.True(t, g.TooFast(domain.Draft{MountedAt: now.Add(-1499 * time.Millisecond)}, now))
	assert.False(t, g.TooFast(domain.Draft{MountedAt: now.Add(-1500 * time.Millisecond)}, now))
	assert.True(t, g.TooFast(domain.Draft{MountedAt: now.Add(time.Minute)}, now), "future timestamp")

	strict := Guard{MinElapsed: 5 * time.Second}
	assert.True(t, strict.TooFast(domain.Draft{MountedAt: now.Add(-3 * time.Second)}, now))
}
