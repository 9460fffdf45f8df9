package domain

import "time"

// TourStatus defines where a tour is in its lifecycle.
type TourStatus string

const (
	StatusIdle      TourStatus = "idle"      // Constructed, not started
	StatusActive    TourStatus = "active"    // Showing steps
	StatusCompleted TourStatus = "completed" // Finished past the last step
	StatusSkipped   TourStatus = "skipped"   // Dismissed by the user
	StatusStopped   TourStatus = "stopped"   // Torn down without an outcome
)

// Terminal reports whether the status ends the tour.
func (s TourStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusSkipped || s == StatusStopped
}

// TourState is the runtime cursor of the live tour.
type TourState struct {
	TourID           string     `json:"tourId"`
	SessionID        string     `json:"sessionId"`
	CurrentPageIndex int        `json:"currentPageIndex"`
	CurrentStepIndex int        `json:"currentStepIndex"`
	StartedAt        time.Time  `json:"startedAt"`
	LastActivityAt   time.Time  `json:"lastActivityAt"`
	Status           TourStatus `json:"status"`
}

// NewState creates a clean state for a tour positioned at a page.
func NewState(tourID, sessionID string, pageIndex int, now time.Time) *TourState {
	return &TourState{
		TourID:           tourID,
		SessionID:        sessionID,
		CurrentPageIndex: pageIndex,
		StartedAt:        now,
		LastActivityAt:   now,
		Status:           StatusIdle,
	}
}
