package domain

// StepView is everything the overlay needs to render the current step.
type StepView struct {
	TourID    string `json:"tourId"`
	StepID    string `json:"stepId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Indicator string `json:"indicator"`

	Index int `json:"index"`
	Total int `json:"total"`

	ShowBack     bool   `json:"showBack"`
	ShowNext     bool   `json:"showNext"`
	ShowSkip     bool   `json:"showSkip"`
	ShowProgress bool   `json:"showProgress"`
	BackLabel    string `json:"backLabel"`
	NextLabel    string `json:"nextLabel"`
	SkipLabel    string `json:"skipLabel"`

	// Highlight is nil when the step has no resolvable target.
	Highlight      *Rect   `json:"highlight,omitempty"`
	HighlightStyle string  `json:"highlightStyle,omitempty"`
	ClickThrough   bool    `json:"clickThrough"`
	OverlayOpacity float64 `json:"overlayOpacity"`
}

// Default button labels.
const (
	LabelBack   = "Back"
	LabelNext   = "Next"
	LabelFinish = "Finish"
	LabelSkip   = "Skip Tour"
)
