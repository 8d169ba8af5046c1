package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels of CounterPlanGenerations.
const (
	OutcomeSuccess           = "success"
	OutcomeProfileNotFound   = "profile_not_found"
	OutcomeGenerationFailed  = "generation_failed"
	OutcomePersistenceFailed = "persistence_failed"
)

type Manager struct {
	// counters
	CounterRequests          *prometheus.CounterVec
	CounterPlanGenerations   *prometheus.CounterVec
	CounterUpstreamAttempts  *prometheus.CounterVec
	CounterWorkoutsPersisted prometheus.Counter

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration    prometheus.Histogram
	HistGenerationDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fitcoach", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitcoach", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterPlanGenerations := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "plan_generations",
		Help:      "Plan generation requests by outcome",
	}, []string{"outcome"})
	counterUpstreamAttempts := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "upstream_attempts",
		Help:      "Calls to the generative model by result",
	}, []string{"result"})
	counterWorkoutsPersisted := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "workouts_persisted",
		Help:      "The total number of persisted workout records",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})

	histReqDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.0001, 0.001, 0.005, 0.01, 0.05, 0.1,
				0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120,
			},
			Name: "request_duration_seconds",
			Help: "Total duration of requests in seconds",
		},
	)
	histGenerationDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 45, 60, 90, 120, 180},
			Name:      "plan_generation_duration_seconds",
			Help:      "Duration of a full plan generation in seconds",
		},
	)

	return &Manager{
		CounterRequests:          counterRequests,
		CounterPlanGenerations:   counterPlanGenerations,
		CounterUpstreamAttempts:  counterUpstreamAttempts,
		CounterWorkoutsPersisted: counterWorkoutsPersisted,
		GaugeRequests:            gaugeRequests,
		HistRequestDuration:      histReqDuration,
		HistGenerationDuration:   histGenerationDuration,
	}
}
