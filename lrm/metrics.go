package lrm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mayuresh82/go-gmpls-te/advert"
)

// Metrics of a Table.
type Metrics struct {
	Decisions   *prometheus.CounterVec
	Nodes       prometheus.Gauge
	Links       prometheus.Gauge
	Rejected    *prometheus.CounterVec
	HandoffErrs prometheus.Counter
}

// NewMetrics registers the table metrics with reg. A nil reg uses the default
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	m := &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gmpls_te_advert_decisions_total",
			Help: "Advertisement decisions taken, by kind and action.",
		}, []string{"kind", "action"}),
		Nodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "gmpls_te_nodes",
			Help: "Nodes in the TE table.",
		}),
		Links: f.NewGauge(prometheus.GaugeOpts{
			Name: "gmpls_te_links",
			Help: "TE links in the TE table.",
		}),
		Rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gmpls_te_rejected_total",
			Help: "Operations rejected by the TE table, by error code.",
		}, []string{"code"}),
		HandoffErrs: f.NewCounter(prometheus.CounterOpts{
			Name: "gmpls_te_handoff_errors_total",
			Help: "Decisions the originator failed to act on.",
		}),
	}
	for _, k := range []Kind{KindNode, KindLink} {
		for _, a := range advert.Actions {
			m.Decisions.WithLabelValues(string(k), a.String())
		}
	}
	return m
}

func (m *Metrics) decided(k Kind, a advert.Action) {
	m.Decisions.WithLabelValues(string(k), a.String()).Inc()
}

func (m *Metrics) rejected(err error) {
	m.Rejected.WithLabelValues(CodeOf(err).String()).Inc()
}
