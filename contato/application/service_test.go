package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vivair-contato/contato/domain"
	rlapp "vivair-contato/middleware/ratelimit/application"
	rldomain "vivair-contato/middleware/ratelimit/domain"
	"vivair-contato/middleware/ratelimit/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type recordingObserver struct {
	mu            sync.Mutex
	submissions   []string
	notifications []Status
}

func (o *recordingObserver) ObserveSubmission(reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.submissions = append(o.submissions, reason)
}

func (o *recordingObserver) ObserveNotification(_ string, st Status, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notifications = append(o.notifications, st)
}

type fixture struct {
	svc   Service
	clk   *clock
	stats *infra.MemoryStatsStore
	obs   *recordingObserver
}

func newFixture(t *testing.T, channels ...*fakeChannel) *fixture {
	t.Helper()
	clk := &clock{t: time.Date(2026, 6, 1, 15, 0, 0, 0, time.UTC)}
	stats := infra.NewMemoryStatsStore()
	obs := &recordingObserver{}

	var chs []Channel
	for _, c := range channels {
		chs = append(chs, c)
	}

	f := &fixture{clk: clk, stats: stats, obs: obs}
	f.svc = Service{
		Limiter: rlapp.WindowService{
			Limiter: infra.NewMemoryWindowStore(3, time.Hour, infra.WithClock(clk.Now)),
			Now:     clk.Now,
		},
		Dispatcher: Dispatcher{Channels: chs},
		Stats:      stats,
		Observer:   obs,
		Now:        clk.Now,
		NewID:      func() string { return "lead-123" },
	}
	return f
}

func (f *fixture) validDraft() domain.Draft {
	return domain.Draft{
		Nome:      "Ana Silva",
		Email:     "ana@exemplo.com",
		Telefone:  "+55(21)99999-0000",
		Porcque:   "Lua de mel",
		MountedAt: f.clk.Now().Add(-15 * time.Second),
	}
}

func (f *fixture) submit(d domain.Draft) Result {
	return f.svc.Submit(context.Background(), Submission{Draft: d, ClientKey: "1.2.3.4", Method: "POST", Path: "/api/contato"})
}

func TestSubmit_AcceptedWithoutChannels(t *testing.T) {
	f := newFixture(t)

	res := f.submit(f.validDraft())

	assert.Equal(t, Accepted, res.Verdict)
	assert.Nil(t, res.Warnings)
	assert.Equal(t, "lead-123", res.LeadID)
	assert.Equal(t, map[string]int64{rldomain.ReasonAccepted: 1}, f.stats.ByReason())
}

func TestSubmit_ChannelFailureBecomesWarning(t *testing.T) {
	wa := &fakeChannel{name: "whatsapp", enabled: true, err: errors.New("WhatsApp webhook error: 500")}
	f := newFixture(t, wa)

	res := f.submit(f.validDraft())

	assert.Equal(t, Accepted, res.Verdict)
	assert.Equal(t, []string{"WhatsApp webhook error: 500"}, res.Warnings)
	assert.Equal(t, []Status{Failed}, f.obs.notifications)
}

func TestSubmit_HoneypotIsSilentAndSkipsEverything(t *testing.T) {
	wa := &fakeChannel{name: "whatsapp", enabled: true}
	f := newFixture(t, wa)

	d := f.validDraft()
	d.Honeypot = "bot"
	d.Email = "not-an-email"

	res := f.submit(d)

	assert.Equal(t, SilentDrop, res.Verdict)
	assert.Equal(t, rldomain.ReasonHoneypot, res.Reason)
	assert.Nil(t, res.Errors)
	assert.Zero(t, wa.calls.Load())
	assert.Equal(t, int64(1), f.stats.ByReason()[rldomain.ReasonHoneypot])
}

func TestSubmit_TooFastIsSilentAndSkipsChannels(t *testing.T) {
	wa := &fakeChannel{name: "whatsapp", enabled: true}
	f := newFixture(t, wa)

	d := f.validDraft()
	d.MountedAt = f.clk.Now().Add(-500 * time.Millisecond)

	res := f.submit(d)

	assert.Equal(t, SilentDrop, res.Verdict)
	assert.Equal(t, rldomain.ReasonTooFast, res.Reason)
	assert.Zero(t, wa.calls.Load())
}

func TestSubmit_InvalidFieldsNeverReachChannels(t *testing.T) {
	wa := &fakeChannel{name: "whatsapp", enabled: true}
	f := newFixture(t, wa)

	d := f.validDraft()
	d.Telefone = "1234567"

	res := f.submit(d)

	require.Equal(t, Invalid, res.Verdict)
	assert.Equal(t, domain.MsgTelefoneCurto, res.Errors[domain.FieldTelefone])
	assert.Zero(t, wa.calls.Load())
}

func TestSubmit_RateLimitWindow(t *testing.T) {
	f := newFixture(t)
	first := f.clk.Now()

	for i := 0; i < 3; i++ {
		f.clk.Set(first.Add(time.Duration(i) * 10 * time.Minute))
		res := f.submit(f.validDraft())
		require.Equal(t, Accepted, res.Verdict, "request %d", i+1)
	}

	f.clk.Set(first.Add(40 * time.Minute))
	res := f.submit(f.validDraft())
	assert.Equal(t, RateLimited, res.Verdict)
	assert.Equal(t, 20*time.Minute, res.RetryAfter)

	f.clk.Set(first.Add(61 * time.Minute))
	res = f.submit(f.validDraft())
	assert.Equal(t, Accepted, res.Verdict)
}

func TestSubmit_RateLimitRunsBeforeHoneypot(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		f.submit(f.validDraft())
	}

	d := f.validDraft()
	d.Honeypot = "bot"
	res := f.submit(d)

	assert.Equal(t, RateLimited, res.Verdict)
	assert.Equal(t, []string{
		rldomain.ReasonAccepted, rldomain.ReasonAccepted, rldomain.ReasonAccepted, rldomain.ReasonRateLimited,
	}, f.obs.submissions)
}

func TestSubmit_EmptyClientKeyUsesUnknownBucket(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		res := f.svc.Submit(context.Background(), Submission{Draft: f.validDraft()})
		require.Equal(t, Accepted, res.Verdict)
	}
	res := f.svc.Submit(context.Background(), Submission{Draft: f.validDraft()})
	assert.Equal(t, RateLimited, res.Verdict)
}

func TestSubmit_MalformedCountsTowardWindow(t *testing.T) {
	wa := &fakeChannel{name: "whatsapp", enabled: true}
	f := newFixture(t, wa)

	for i := 0; i < 3; i++ {
		res := f.svc.Submit(context.Background(), Submission{ClientKey: "1.2.3.4", Malformed: true})
		require.Equal(t, Malformed, res.Verdict, "request %d", i+1)
	}

	res := f.submit(f.validDraft())
	assert.Equal(t, RateLimited, res.Verdict)
	assert.Zero(t, wa.calls.Load())
	assert.Equal(t, int64(3), f.stats.ByReason()[rldomain.ReasonMalformed])
}
