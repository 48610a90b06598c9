package api

import (
	"github.com/huangsam/analyzer/core"
	"github.com/prometheus/client_golang/prometheus"
)

type apiMetrics struct {
	mutations      *prometheus.CounterVec
	datasetChanges *prometheus.CounterVec
	specimens      prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *apiMetrics {
	m := &apiMetrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analyzer_mutations_total",
			Help: "Project mutations by kind and result.",
		}, []string{"kind", "result"}),
		datasetChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "analyzer_dataset_changes_total",
			Help: "Dataset changes produced by rescoring, by change type.",
		}, []string{"change"}),
		specimens: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "analyzer_specimens",
			Help: "Number of specimens in the served project.",
		}),
	}
	reg.MustRegister(m.mutations, m.datasetChanges, m.specimens)
	return m
}

// observe counts dataset notifications emitted by the project.
func (m *apiMetrics) observe(c core.Change) {
	switch c.Field {
	case core.DatasetAdded, core.DatasetRemoved, core.DatasetValueChanged, core.DatasetRankChanged:
		m.datasetChanges.WithLabelValues(string(c.Field)).Inc()
	}
}
