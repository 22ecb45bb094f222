package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the survey module.
type Metrics struct {
	SurveysScheduled prometheus.Counter
	SurveysStarted   prometheus.Counter
	FindingsAdded    *prometheus.CounterVec
	FindingsResolved prometheus.Counter
	FindingsVerified prometheus.Counter
}

// New creates a Metrics instance with all survey module metrics registered.
func New() *Metrics {
	return &Metrics{
		SurveysScheduled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shipcertify_surveys_scheduled_total",
			Help: "Total number of surveys scheduled",
		}),
		SurveysStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shipcertify_surveys_started_total",
			Help: "Total number of surveys moved to in-progress",
		}),
		FindingsAdded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shipcertify_findings_added_total",
			Help: "Findings recorded, partitioned by severity",
		}, []string{"severity"}),
		FindingsResolved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shipcertify_findings_resolved_total",
			Help: "Total number of findings resolved",
		}),
		FindingsVerified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shipcertify_findings_verified_total",
			Help: "Total number of findings verified",
		}),
	}
}

func (m *Metrics) IncrementScheduled() {
	if m != nil {
		m.SurveysScheduled.Inc()
	}
}

func (m *Metrics) IncrementStarted() {
	if m != nil {
		m.SurveysStarted.Inc()
	}
}

func (m *Metrics) IncrementFindingAdded(severity string) {
	if m != nil {
		m.FindingsAdded.WithLabelValues(severity).Inc()
	}
}

func (m *Metrics) IncrementFindingResolved() {
	if m != nil {
		m.FindingsResolved.Inc()
	}
}

func (m *Metrics) IncrementFindingVerified() {
	if m != nil {
		m.FindingsVerified.Inc()
	}
}
