package i18n

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments message lookups and catalog reloads.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	lookups *prometheus.CounterVec
	reloads *prometheus.CounterVec
	keys    *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "i18n_lookups_total",
			Help: "Message lookups by result (hit or miss)",
		}, []string{"result"}),
		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "i18n_reloads_total",
			Help: "Catalog reloads by result (success or failure)",
		}, []string{"result"}),
		keys: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "i18n_catalog_keys",
			Help: "Number of message keys per bundle in the current catalog",
		}, []string{"lang"}),
	}
}

func (m *Metrics) lookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.lookups.WithLabelValues(result).Inc()
}

func (m *Metrics) reloaded(ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.reloads.WithLabelValues(result).Inc()
}

func (m *Metrics) observeCatalog(cat *Catalog) {
	if m == nil || cat == nil {
		return
	}
	m.keys.Reset()
	for tag, n := range cat.KeyCounts() {
		m.keys.WithLabelValues(tag).Set(float64(n))
	}
}
