// Package validator checks a set of tours for problems the schema cannot
// express: duplicate IDs, broken URL patterns and conflicting shortcuts.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/match"
)

// ValidateTours lints tours as a whole catalog.
func ValidateTours(tours []domain.TourDefinition) error {
	var errors []string

	seenTours := make(map[string]bool)
	shortcuts := make(map[string]string)

	for _, tour := range tours {
		if seenTours[tour.ID] {
			errors = append(errors, fmt.Sprintf("duplicate tour id '%s'", tour.ID))
		}
		seenTours[tour.ID] = true

		if sc := normalizeShortcut(tour.Trigger.KeyboardShortcut); sc != "" {
			if other, ok := shortcuts[sc]; ok && other != tour.ID {
				errors = append(errors, fmt.Sprintf("tours '%s' and '%s' share shortcut %s", other, tour.ID, tour.Trigger.KeyboardShortcut))
			} else {
				shortcuts[sc] = tour.ID
			}
		}

		if tour.Trigger.Mode == domain.TriggerAuto {
			if c := tour.Trigger.AutoConditions; c == nil || !c.FirstVisit {
				errors = append(errors, fmt.Sprintf("tour '%s' is auto but never starts on its own (autoConditions.firstVisit is not set)", tour.ID))
			}
		}

		seenSteps := make(map[string]bool)
		for i, page := range tour.Pages {
			if err := match.Check(page); err != nil {
				errors = append(errors, fmt.Sprintf("tour '%s' page %d: invalid %s pattern %q: %v", tour.ID, i, page.URLMatchMode, page.URLPattern, err))
			}
			for _, step := range page.Steps {
				if seenSteps[step.ID] {
					errors = append(errors, fmt.Sprintf("tour '%s': duplicate step id '%s'", tour.ID, step.ID))
				}
				seenSteps[step.ID] = true
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

func normalizeShortcut(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}
