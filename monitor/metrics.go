// Package monitor exposes Prometheus counters for the game service.
package monitor

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics carries its own registry so multiple instances (one per test)
// never trip duplicate registration.
type Metrics struct {
	registry *prometheus.Registry

	RoomsCreated   prometheus.Counter
	Settlements    prometheus.Counter
	WebhookCredits prometheus.Counter
	Transitions    *prometheus.CounterVec
	Watchers       prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RoomsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fraud",
			Name:      "rooms_created_total",
			Help:      "Rooms opened since process start.",
		}),
		Settlements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fraud",
			Name:      "settlements_total",
			Help:      "Rooms settled to FINISHED.",
		}),
		WebhookCredits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fraud",
			Name:      "webhook_credits_total",
			Help:      "Credits granted through payment webhooks.",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fraud",
			Name:      "room_transitions_total",
			Help:      "Room phase transitions by target phase.",
		}, []string{"to"}),
		Watchers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fraud",
			Name:      "watchers",
			Help:      "Open websocket snapshot streams.",
		}),
	}

	m.registry.MustRegister(m.RoomsCreated, m.Settlements, m.WebhookCredits, m.Transitions, m.Watchers)
	return m
}

// Handler serves the registry in the standard exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
