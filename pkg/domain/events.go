package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTourStart   EventType = "tour_start"
	EventStepShow    EventType = "step_show"
	EventStepSkip    EventType = "step_skip"
	EventTourEnd     EventType = "tour_end"
	EventCatalogLoad EventType = "catalog_load"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// TourEvent represents a tour starting or ending.
type TourEvent struct {
	EventBase
	TourID string     `json:"tour_id"`
	Status TourStatus `json:"status"`
}

// StepEvent represents a step being shown or skipped.
type StepEvent struct {
	EventBase
	TourID    string `json:"tour_id"`
	StepID    string `json:"step_id"`
	PageIndex int    `json:"page_index"`
	StepIndex int    `json:"step_index"`
	HasTarget bool   `json:"has_target"`
	Reason    string `json:"reason,omitempty"` // why a step was skipped
}

// CatalogEvent represents a catalog load.
type CatalogEvent struct {
	EventBase
	Origin string `json:"origin"`
	Tours  int    `json:"tours"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTourStart   func(context.Context, *TourEvent)
	OnTourEnd     func(context.Context, *TourEvent)
	OnStepShow    func(context.Context, *StepEvent)
	OnStepSkip    func(context.Context, *StepEvent)
	OnCatalogLoad func(context.Context, *CatalogEvent)
}

// Skip reasons reported in StepEvent.Reason.
const (
	SkipReasonMissing   = "element_missing"
	SkipReasonInvisible = "element_invisible"
)

// MergeHooks combines several hook sets; every non-nil callback is called in order.
func MergeHooks(sets ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, h := range sets {
		out.OnTourStart = chainTour(out.OnTourStart, h.OnTourStart)
		out.OnTourEnd = chainTour(out.OnTourEnd, h.OnTourEnd)
		out.OnStepShow = chainStep(out.OnStepShow, h.OnStepShow)
		out.OnStepSkip = chainStep(out.OnStepSkip, h.OnStepSkip)
		out.OnCatalogLoad = chainCatalog(out.OnCatalogLoad, h.OnCatalogLoad)
	}
	return out
}

func chainTour(a, b func(context.Context, *TourEvent)) func(context.Context, *TourEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *TourEvent) { a(ctx, e); b(ctx, e) }
}

func chainStep(a, b func(context.Context, *StepEvent)) func(context.Context, *StepEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *StepEvent) { a(ctx, e); b(ctx, e) }
}

func chainCatalog(a, b func(context.Context, *CatalogEvent)) func(context.Context, *CatalogEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *CatalogEvent) { a(ctx, e); b(ctx, e) }
}
