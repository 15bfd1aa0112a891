package relayd

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seedlink/internal/domain"
)

// Metrics holds the relay's Prometheus collectors on a private registry.
type Metrics struct {
	Requests     *prometheus.CounterVec
	AuthFailures prometheus.Counter
	Swept        prometheus.Counter

	registry *prometheus.Registry
}

func newMetrics(store domain.ChannelStore) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	m := &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seedlink_relay_requests_total",
				Help: "Relay requests by route and status code",
			},
			[]string{"route", "code"},
		),
		AuthFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "seedlink_relay_auth_failures_total",
			Help: "Requests rejected for a missing, invalid or stale signature",
		}),
		Swept: factory.NewCounter(prometheus.CounterOpts{
			Name: "seedlink_relay_channels_expired_total",
			Help: "Channels removed after their TTL",
		}),
		registry: reg,
	}
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "seedlink_relay_channels",
		Help: "Channels currently held in memory",
	}, func() float64 { return float64(store.Len()) })
	return m
}

// Handler exposes the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
