package runtime

import (
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/clickpath/pkg/domain"
)

// ErrAlreadyStarted is returned when Start is called on a machine that left idle.
var ErrAlreadyStarted = errors.New("tour already started")

// Transition is the outcome of a Next call.
type Transition int

const (
	// TransitionNone means the machine was not active and nothing changed.
	TransitionNone Transition = iota
	// TransitionAdvanced means the cursor moved to the next step.
	TransitionAdvanced
	// TransitionCompleted means the cursor was on the last step and the tour completed.
	TransitionCompleted
)

func (t Transition) String() string {
	switch t {
	case TransitionAdvanced:
		return "advanced"
	case TransitionCompleted:
		return "completed"
	default:
		return "none"
	}
}

// Machine is the step cursor of a single tour. It holds no I/O and is driven
// by the Player. The zero cursor is (page, 0) where page is given to Start.
type Machine struct {
	tour  *domain.TourDefinition
	state domain.TourState
}

// NewMachine creates an idle machine for the tour.
func NewMachine(tour *domain.TourDefinition, sessionID string) *Machine {
	return &Machine{
		tour:  tour,
		state: *domain.NewState(tour.ID, sessionID, 0, time.Time{}),
	}
}

// Start enters the active state at step 0 of the given page.
func (m *Machine) Start(pageIndex int, now time.Time) error {
	if m.state.Status != domain.StatusIdle {
		return fmt.Errorf("%w: %s is %s", ErrAlreadyStarted, m.tour.ID, m.state.Status)
	}
	if pageIndex < 0 || pageIndex >= len(m.tour.Pages) {
		return fmt.Errorf("%w: tour %s has %d pages, got %d", domain.ErrPageOutOfRange, m.tour.ID, len(m.tour.Pages), pageIndex)
	}
	if len(m.tour.Pages[pageIndex].Steps) == 0 {
		return fmt.Errorf("%w: page %d of %s has no steps", domain.ErrInvalidTour, pageIndex, m.tour.ID)
	}

	m.state.CurrentPageIndex = pageIndex
	m.state.CurrentStepIndex = 0
	m.state.StartedAt = now
	m.state.LastActivityAt = now
	m.state.Status = domain.StatusActive
	return nil
}

// Next moves to the following step or completes the tour on the last one.
func (m *Machine) Next() Transition {
	if m.state.Status != domain.StatusActive {
		return TransitionNone
	}
	if m.state.CurrentStepIndex < m.StepCount()-1 {
		m.state.CurrentStepIndex++
		return TransitionAdvanced
	}
	m.state.Status = domain.StatusCompleted
	return TransitionCompleted
}

// Prev moves back one step. It reports false, leaving the cursor as is,
// at step 0 or when the machine is not active.
func (m *Machine) Prev() bool {
	if m.state.Status != domain.StatusActive || m.state.CurrentStepIndex == 0 {
		return false
	}
	m.state.CurrentStepIndex--
	return true
}

// Skip ends an active tour as skipped, whatever the step.
func (m *Machine) Skip() bool {
	if m.state.Status != domain.StatusActive {
		return false
	}
	m.state.Status = domain.StatusSkipped
	return true
}

// Stop ends an idle or active tour without an outcome. Terminal machines are left alone.
func (m *Machine) Stop() bool {
	if m.state.Status.Terminal() {
		return false
	}
	m.state.Status = domain.StatusStopped
	return true
}

// Touch records user activity.
func (m *Machine) Touch(now time.Time) {
	m.state.LastActivityAt = now
}

// Cursor returns the current (page, step) indices.
func (m *Machine) Cursor() (int, int) {
	return m.state.CurrentPageIndex, m.state.CurrentStepIndex
}

// Step returns the current step, or nil when the machine is not active.
func (m *Machine) Step() *domain.TourStep {
	if m.state.Status != domain.StatusActive {
		return nil
	}
	return &m.tour.Pages[m.state.CurrentPageIndex].Steps[m.state.CurrentStepIndex]
}

// StepCount is the number of steps on the current page.
func (m *Machine) StepCount() int {
	if m.state.CurrentPageIndex >= len(m.tour.Pages) {
		return 0
	}
	return len(m.tour.Pages[m.state.CurrentPageIndex].Steps)
}

// Status returns the lifecycle status.
func (m *Machine) Status() domain.TourStatus {
	return m.state.Status
}

// State returns a copy of the runtime state.
func (m *Machine) State() domain.TourState {
	return m.state
}

// Progress builds the record reported when the tour ends.
func (m *Machine) Progress(now time.Time) domain.TourProgress {
	p := domain.TourProgress{
		TourID:  m.tour.ID,
		Version: m.tour.Version,
	}

	total := m.StepCount()
	if total > 0 {
		p.CurrentStepID = m.tour.Pages[m.state.CurrentPageIndex].Steps[m.state.CurrentStepIndex].ID
	}

	switch m.state.Status {
	case domain.StatusCompleted:
		p.Status = domain.ProgressCompleted
		p.PercentComplete = 100
		p.CompletedAt = &now
	case domain.StatusSkipped:
		p.Status = domain.ProgressSkipped
		p.PercentComplete = seen(m.state.CurrentStepIndex, total)
		p.CompletedAt = &now
	case domain.StatusActive:
		p.Status = domain.ProgressInProgress
		p.PercentComplete = seen(m.state.CurrentStepIndex, total)
	default:
		p.Status = domain.ProgressNotStarted
	}
	return p
}

func seen(index, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(index+1) / float64(total) * 100
}
