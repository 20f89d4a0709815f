package fixture

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// stream results used as the "result" label
const (
	streamComplete = "complete"
	streamAborted  = "aborted"
)

// metrics counts chat traffic. Each server has its own registry, so several servers can live in one process.
type metrics struct {
	reg      *prometheus.Registry
	messages prometheus.Counter
	limited  prometheus.Counter
	streams  *prometheus.CounterVec
	chunks   prometheus.Counter
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &metrics{
		reg: reg,
		messages: f.NewCounter(prometheus.CounterOpts{
			Name: "aiprobe_fixture_messages_total",
			Help: "Chat messages accepted",
		}),
		limited: f.NewCounter(prometheus.CounterOpts{
			Name: "aiprobe_fixture_rate_limited_total",
			Help: "Chat messages rejected by the rate limit",
		}),
		streams: f.NewCounterVec(prometheus.CounterOpts{
			Name: "aiprobe_fixture_streams_total",
			Help: "Reply streams by result",
		}, []string{"result"}),
		chunks: f.NewCounter(prometheus.CounterOpts{
			Name: "aiprobe_fixture_chunks_total",
			Help: "Reply chunks sent",
		}),
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
