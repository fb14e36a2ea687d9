package transact

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts history operations by request category.
type Metrics struct {
	Commits     *prometheus.CounterVec
	Undos       *prometheus.CounterVec
	Redos       *prometheus.CounterVec
	Rollbacks   *prometheus.CounterVec
	Truncations *prometheus.CounterVec
	UndoDepth   prometheus.Gauge
	RedoDepth   prometheus.Gauge
}

// NewMetrics returns the metrics and registers them with reg, if not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floorplan",
			Subsystem: "transact",
			Name:      name,
			Help:      help,
		}, []string{"category"})
	}
	m := &Metrics{
		Commits:     counter("commits_total", "Number of committed requests."),
		Undos:       counter("undos_total", "Number of undone requests."),
		Redos:       counter("redos_total", "Number of redone requests."),
		Rollbacks:   counter("rollbacks_total", "Number of requests rolled back by an aborted session."),
		Truncations: counter("truncations_total", "Number of requests dropped from the history after a failed undo or redo."),
		UndoDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floorplan",
			Subsystem: "transact",
			Name:      "undo_depth",
			Help:      "Number of entries on the undo stack.",
		}),
		RedoDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floorplan",
			Subsystem: "transact",
			Name:      "redo_depth",
			Help:      "Number of entries on the redo stack.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Commits, m.Undos, m.Redos, m.Rollbacks, m.Truncations, m.UndoDepth, m.RedoDepth)
	}
	return m
}

func count(c *prometheus.CounterVec, reqs []*Request) {
	for _, r := range reqs {
		c.WithLabelValues(r.Category()).Inc()
	}
}
