package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/clickpath/pkg/domain"
)

// GraphOverlay contains live tour state to visualize on the graph.
type GraphOverlay struct {
	VisitedSteps []string
	CurrentStep  string
}

// GenerateMermaid produces a Mermaid flowchart of a tour: one subgraph per
// page, one node per step, in playback order.
// It applies semantic styling:
// - Start and end: ((Circle))
// - Conditional step: {{Hexagon}}
// - Step without a target: ([Stadium])
// - Default: [Rectangle]
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(tour domain.TourDefinition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    start((\"start\"))\n")

	prev := "start"
	for pi, page := range tour.Pages {
		label := fmt.Sprintf("%s %s", page.URLMatchMode, page.URLPattern)
		if page.PageID != "" {
			label = page.PageID + ": " + label
		}
		sb.WriteString(fmt.Sprintf("    subgraph page%d[\"%s\"]\n", pi, escape(label)))

		for _, step := range page.Steps {
			safeID := sanitizeMermaidID(step.ID)

			// Node Shape based on how the step renders
			opener, closer := "[", "]"
			switch {
			case step.Condition != nil:
				opener, closer = "{{", "}}"
			case len(step.Selectors()) == 0:
				opener, closer = "([", "])"
			}
			sb.WriteString(fmt.Sprintf("        %s%s\"%s\"%s\n", safeID, opener, escape(step.Title), closer))
		}
		sb.WriteString("    end\n")

		for _, step := range page.Steps {
			safeID := sanitizeMermaidID(step.ID)
			arrow := "-->"
			if step.Condition != nil {
				arrow = "-- \"if present\" -->"
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", prev, arrow, safeID))
			prev = safeID
		}
	}
	sb.WriteString(fmt.Sprintf("    %s --> done((\"done\"))\n", prev))
	if tour.Settings.AllowSkip {
		sb.WriteString("    start -. \"skip\" .-> done\n")
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedSteps {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentStep != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentStep)))
		}
	}

	return sb.String()
}

// OverlayFor builds the overlay for a live tour state: steps before the
// cursor are visited.
func OverlayFor(tour domain.TourDefinition, state *domain.TourState) *GraphOverlay {
	if state == nil || state.TourID != tour.ID {
		return nil
	}
	o := &GraphOverlay{}
	for pi, page := range tour.Pages {
		for si, step := range page.Steps {
			switch {
			case pi < state.CurrentPageIndex || (pi == state.CurrentPageIndex && si < state.CurrentStepIndex):
				o.VisitedSteps = append(o.VisitedSteps, step.ID)
			case pi == state.CurrentPageIndex && si == state.CurrentStepIndex:
				o.CurrentStep = step.ID
			}
		}
	}
	return o
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	// Mermaid reserves these node names
	if s == "start" || s == "done" || s == "end" {
		s = "step_" + s
	}
	return s
}
