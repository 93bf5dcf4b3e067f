package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SessionsStarted      *prometheus.CounterVec
	SessionsFinished     *prometheus.CounterVec
	StartConflicts       *prometheus.CounterVec
	ItemsRecorded        *prometheus.CounterVec
	StaleChecksAbandoned prometheus.Counter
	SessionDuration      *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		SessionsStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rigcheck_sessions_started_total",
			Help: "Checks and audits started, by kind",
		}, []string{"kind"}),
		SessionsFinished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rigcheck_sessions_finished_total",
			Help: "Checks and audits leaving in-progress, by kind and outcome",
		}, []string{"kind", "outcome"}),
		StartConflicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rigcheck_session_start_conflicts_total",
			Help: "Start attempts rejected because another session held the apparatus",
		}, []string{"kind"}),
		ItemsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rigcheck_items_recorded_total",
			Help: "Verified or audited items, by kind and recorded status",
		}, []string{"kind", "status"}),
		StaleChecksAbandoned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rigcheck_stale_checks_abandoned_total",
			Help: "In-progress checks abandoned by the staleness sweep",
		}),
		SessionDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rigcheck_session_duration_minutes",
			Help:    "Minutes from start to completion",
			Buckets: []float64{5, 10, 20, 30, 60, 120, 240, 480},
		}, []string{"kind"}),
	}
}
