package observability_test

import (
	"context"
	"testing"

	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnCatalogLoad(ctx, &domain.CatalogEvent{Origin: "remote", Tours: 2})
	hooks.OnTourStart(ctx, &domain.TourEvent{TourID: "intro"})
	hooks.OnStepShow(ctx, &domain.StepEvent{TourID: "intro", StepID: "a"})
	hooks.OnStepShow(ctx, &domain.StepEvent{TourID: "intro", StepID: "b"})
	hooks.OnStepSkip(ctx, &domain.StepEvent{TourID: "intro", Reason: domain.SkipReasonMissing})
	hooks.OnTourEnd(ctx, &domain.TourEvent{TourID: "intro", Status: domain.StatusCompleted})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogLoads.WithLabelValues("remote")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToursStarted.WithLabelValues("intro")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StepsShown.WithLabelValues("intro")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StepsSkipped.WithLabelValues("intro", domain.SkipReasonMissing)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToursFinished.WithLabelValues("intro", "completed")))

	n, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestMetrics_DoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg)
	assert.Panics(t, func() { observability.NewMetrics(reg) })
}
