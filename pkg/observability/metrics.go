package observability

import (
	"context"

	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine counters.
type Metrics struct {
	ToursStarted  *prometheus.CounterVec
	ToursFinished *prometheus.CounterVec
	StepsShown    *prometheus.CounterVec
	StepsSkipped  *prometheus.CounterVec
	CatalogLoads  *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ToursStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clickpath_tours_started_total",
			Help: "Total number of tours started",
		}, []string{"tour"}),
		ToursFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clickpath_tours_finished_total",
			Help: "Total number of tours ended, by final status",
		}, []string{"tour", "status"}),
		StepsShown: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clickpath_steps_shown_total",
			Help: "Total number of steps rendered",
		}, []string{"tour"}),
		StepsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clickpath_steps_skipped_total",
			Help: "Total number of steps skipped by their condition",
		}, []string{"tour", "reason"}),
		CatalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clickpath_catalog_loads_total",
			Help: "Total number of catalog loads, by origin",
		}, []string{"origin"}),
	}
	reg.MustRegister(m.ToursStarted, m.ToursFinished, m.StepsShown, m.StepsSkipped, m.CatalogLoads)
	return m
}

// Hooks returns lifecycle hooks recording into the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTourStart: func(ctx context.Context, e *domain.TourEvent) {
			m.ToursStarted.WithLabelValues(e.TourID).Inc()
		},
		OnTourEnd: func(ctx context.Context, e *domain.TourEvent) {
			m.ToursFinished.WithLabelValues(e.TourID, string(e.Status)).Inc()
		},
		OnStepShow: func(ctx context.Context, e *domain.StepEvent) {
			m.StepsShown.WithLabelValues(e.TourID).Inc()
		},
		OnStepSkip: func(ctx context.Context, e *domain.StepEvent) {
			m.StepsSkipped.WithLabelValues(e.TourID, e.Reason).Inc()
		},
		OnCatalogLoad: func(ctx context.Context, e *domain.CatalogEvent) {
			m.CatalogLoads.WithLabelValues(e.Origin).Inc()
		},
	}
}
