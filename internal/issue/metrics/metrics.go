package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	IssuesCreated     *prometheus.CounterVec
	IssueTransitions  *prometheus.CounterVec
	TimeToResolutionH prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		IssuesCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rigcheck_issues_created_total",
			Help: "Issues opened, by category and origin (manual or verification)",
		}, []string{"category", "origin"}),
		IssueTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rigcheck_issue_transitions_total",
			Help: "Issue lifecycle transitions by target status",
		}, []string{"status"}),
		TimeToResolutionH: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rigcheck_issue_time_to_resolution_hours",
			Help:    "Hours from report to resolution",
			Buckets: []float64{1, 4, 12, 24, 72, 168, 720},
		}),
	}
}
