package domain

import "time"

// ProgressStatus is the status reported to the progress store.
type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
	ProgressSkipped    ProgressStatus = "skipped"
)

// TourProgress is produced when a tour ends and consumed by the progress store.
type TourProgress struct {
	TourID          string         `json:"tourId"`
	Status          ProgressStatus `json:"status"`
	CurrentStepID   string         `json:"currentStepId,omitempty"`
	PercentComplete float64        `json:"percentComplete"`
	CompletedAt     *time.Time     `json:"completedAt,omitempty"`
	Version         string         `json:"version,omitempty"`
}

// Completion is the local marker stored under CompletionKey.
type Completion struct {
	Status      ProgressStatus `json:"status"`
	CompletedAt time.Time      `json:"completedAt"`
	Version     string         `json:"version"`
}
