package clickpath_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/clickpath"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Interactive(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, dashboardURL, []domain.TourDefinition{dashboardTour()})

	var out bytes.Buffer
	r := clickpath.NewRunner()
	r.Input = strings.NewReader("n\nb\nn\nn\n\n")
	r.Output = &out

	require.NoError(t, r.Run(ctx, h.engine, "dashboard"))
	assert.Nil(t, h.engine.State())
	assert.Equal(t, 5, strings.Count(out.String(), "[n]ext [b]ack [s]kip [q]uit > "))

	raw, err := h.store.Get(ctx, domain.CompletionKey("dashboard"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"completed"`)
}

func TestRunner_Quit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, dashboardURL, []domain.TourDefinition{dashboardTour()})

	var out bytes.Buffer
	r := &clickpath.Runner{Input: strings.NewReader("bogus\nq\n"), Output: &out}

	require.NoError(t, r.Run(ctx, h.engine, "dashboard"))
	assert.Contains(t, out.String(), `unknown command "bogus"`)
	assert.Contains(t, out.String(), "Bye!")
	assert.Nil(t, h.engine.State())

	_, err := h.store.Get(ctx, domain.CompletionKey("dashboard"))
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestRunner_EOFStops(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, dashboardURL, []domain.TourDefinition{dashboardTour()})

	r := &clickpath.Runner{Input: strings.NewReader("n\n"), Output: &bytes.Buffer{}}
	require.NoError(t, r.Run(ctx, h.engine, "dashboard"))
	assert.Nil(t, h.engine.State())
	assert.False(t, h.overlay.Mounted())
}

func TestRunner_Skip(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, dashboardURL, []domain.TourDefinition{dashboardTour()})

	r := &clickpath.Runner{Input: strings.NewReader("s\n"), Output: &bytes.Buffer{}}
	require.NoError(t, r.Run(ctx, h.engine, "dashboard"))

	raw, err := h.store.Get(ctx, domain.CompletionKey("dashboard"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"skipped"`)
}

func TestRunner_Headless(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, dashboardURL, []domain.TourDefinition{dashboardTour()})

	r := &clickpath.Runner{Output: &bytes.Buffer{}, Headless: true}
	require.NoError(t, r.Run(ctx, h.engine, "dashboard"))
	assert.Len(t, h.overlay.Views(), 3)
}

func TestRunner_Errors(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, dashboardURL, []domain.TourDefinition{dashboardTour()})

	assert.Error(t, (&clickpath.Runner{Input: strings.NewReader("")}).Run(ctx, h.engine, "dashboard"))
	assert.Error(t, (&clickpath.Runner{Output: &bytes.Buffer{}}).Run(ctx, h.engine, "dashboard"))

	err := (&clickpath.Runner{Output: &bytes.Buffer{}, Headless: true}).Run(ctx, h.engine, "missing")
	assert.ErrorIs(t, err, domain.ErrTourNotFound)
}
