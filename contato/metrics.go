package contato

import (
	"time"

	"vivair-contato/contato/application"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics expõe contadores do formulário de contato. Implementa
// application.Observer; um *Metrics nil não faz nada.
type Metrics struct {
	submissions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	notifyLatency *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vivair",
			Subsystem: "contato",
			Name:      "submissions_total",
			Help:      "Submissões do formulário por desfecho",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vivair",
			Subsystem: "contato",
			Name:      "notifications_total",
			Help:      "Notificações por canal e status",
		}, []string{"channel", "status"}),
		notifyLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vivair",
			Subsystem: "contato",
			Name:      "notification_duration_seconds",
			Help:      "Duração das chamadas aos canais de notificação",
			Buckets:   prometheus.DefBuckets,
		}, []string{"channel"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissions, m.notifications, m.notifyLatency)
	return m
}

func (m *Metrics) ObserveSubmission(reason string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveNotification(channel string, status application.Status, d time.Duration) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(channel, string(status)).Inc()
	if status != application.Skipped {
		m.notifyLatency.WithLabelValues(channel).Observe(d.Seconds())
	}
}
