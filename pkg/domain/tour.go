package domain

// TriggerMode controls how a tour gets started.
type TriggerMode string

const (
	TriggerAuto       TriggerMode = "auto"
	TriggerManual     TriggerMode = "manual"
	TriggerContextual TriggerMode = "contextual"
)

// MatchMode selects how a page's URL pattern is compared with the current URL.
type MatchMode string

const (
	MatchExact    MatchMode = "exact"
	MatchContains MatchMode = "contains"
	MatchRegex    MatchMode = "regex"
	MatchGlob     MatchMode = "glob"
)

// Placement is the preferred side of the target on which the tooltip is shown.
type Placement string

const (
	PlacementAuto   Placement = "auto"
	PlacementTop    Placement = "top"
	PlacementBottom Placement = "bottom"
	PlacementLeft   Placement = "left"
	PlacementRight  Placement = "right"
)

// ScrollBehavior mirrors the scrollIntoView behaviors of the rendering surface.
type ScrollBehavior string

const (
	ScrollSmooth ScrollBehavior = "smooth"
	ScrollAuto   ScrollBehavior = "auto"
	ScrollNone   ScrollBehavior = "none"
)

// TourDefinition is an authored tour. It is immutable once loaded.
type TourDefinition struct {
	ID          string       `json:"id"`
	Version     string       `json:"version"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Trigger     TourTrigger  `json:"trigger"`
	Pages       []TourPage   `json:"pages"`
	Settings    TourSettings `json:"settings"`
}

// TourTrigger describes when a tour may start on its own.
type TourTrigger struct {
	Mode             TriggerMode     `json:"mode"`
	AutoConditions   *AutoConditions `json:"autoConditions,omitempty"`
	KeyboardShortcut string          `json:"keyboardShortcut,omitempty"`
}

// AutoConditions gate automatic starts.
type AutoConditions struct {
	FirstVisit bool     `json:"firstVisit,omitempty"`
	UserRole   []string `json:"userRole,omitempty"`
}

// TourPage is a URL-matching rule plus the steps shown on matching pages.
type TourPage struct {
	URLPattern   string     `json:"urlPattern"`
	URLMatchMode MatchMode  `json:"urlMatchMode"`
	PageID       string     `json:"pageId,omitempty"`
	WaitFor      *WaitFor   `json:"waitFor,omitempty"`
	Steps        []TourStep `json:"steps"`
}

// WaitFor asks the host to wait for a selector before showing the first step.
type WaitFor struct {
	Selector string `json:"selector"`
	Timeout  int    `json:"timeout"`
}

// TourStep is a single annotation of a page.
type TourStep struct {
	ID              string         `json:"id"`
	Element         string         `json:"element,omitempty"`
	ElementFallback []string       `json:"elementFallback,omitempty"`
	Title           string         `json:"title"`
	Content         string         `json:"content"`
	Position        Placement      `json:"position,omitempty"`
	HighlightStyle  string         `json:"highlightStyle,omitempty"`
	Interaction     *Interaction   `json:"interaction,omitempty"`
	Condition       *StepCondition `json:"condition,omitempty"`
	Buttons         *StepButtons   `json:"buttons,omitempty"`
}

// Selectors returns the primary selector followed by the fallbacks, skipping empty ones.
func (s TourStep) Selectors() []string {
	out := make([]string, 0, 1+len(s.ElementFallback))
	if s.Element != "" {
		out = append(out, s.Element)
	}
	for _, sel := range s.ElementFallback {
		if sel != "" {
			out = append(out, sel)
		}
	}
	return out
}

// Interaction configures how the user may interact with the highlighted target.
type Interaction struct {
	ClickThrough   bool            `json:"clickThrough,omitempty"`
	RequiredAction *RequiredAction `json:"requiredAction,omitempty"`
}

// RequiredAction names a user action the step expects.
type RequiredAction struct {
	Type     string `json:"type"` // click, input, select, wait
	Selector string `json:"selector,omitempty"`
	Value    string `json:"value,omitempty"`
}

// StepCondition is a pre-condition evaluated before a step is shown.
type StepCondition struct {
	ElementExists  string `json:"elementExists,omitempty"`
	ElementVisible string `json:"elementVisible,omitempty"`
}

// StepButtons overrides the default tooltip buttons.
type StepButtons struct {
	Back *ButtonConfig `json:"back,omitempty"`
	Next *ButtonConfig `json:"next,omitempty"`
	Skip *ButtonConfig `json:"skip,omitempty"`
}

// ButtonConfig overrides visibility or label of one button.
type ButtonConfig struct {
	Show  *bool  `json:"show,omitempty"`
	Label string `json:"label,omitempty"`
}

// TourSettings holds display settings shared by all steps of a tour.
type TourSettings struct {
	AllowSkip        bool           `json:"allowSkip"`
	ShowProgress     bool           `json:"showProgress"`
	OverlayOpacity   float64        `json:"overlayOpacity"`
	Theme            string         `json:"theme"`
	SpotlightPadding *float64       `json:"spotlightPadding,omitempty"`
	ScrollBehavior   ScrollBehavior `json:"scrollBehavior,omitempty"`
}

// Padding returns the spotlight padding, defaulting when unset.
func (s TourSettings) Padding() float64 {
	if s.SpotlightPadding == nil {
		return DefaultSpotlightPadding
	}
	return *s.SpotlightPadding
}

// Scroll returns the scroll behavior, defaulting to smooth.
func (s TourSettings) Scroll() ScrollBehavior {
	if s.ScrollBehavior == "" {
		return ScrollSmooth
	}
	return s.ScrollBehavior
}

// TotalSteps counts the steps across all pages.
func (t *TourDefinition) TotalSteps() int {
	n := 0
	for _, p := range t.Pages {
		n += len(p.Steps)
	}
	return n
}

// TourSummary is the listing view of a tour.
type TourSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Summary returns the listing view of the tour.
func (t *TourDefinition) Summary() TourSummary {
	return TourSummary{ID: t.ID, Name: t.Name, Description: t.Description}
}
