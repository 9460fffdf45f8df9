package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/clickpath/internal/validator"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/match"
	"github.com/aretw0/clickpath/pkg/schema"
	"github.com/bmatcuk/doublestar/v4"
)

// ExpandFiles resolves arguments to tour files. Directories are searched for
// JSON and YAML documents; other arguments may be doublestar patterns.
func ExpandFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			matches, err := doublestar.FilepathGlob(filepath.Join(arg, "**", "*.{json,yaml,yml}"))
			if err != nil {
				return nil, err
			}
			files = append(files, matches...)
			continue
		}
		if err == nil {
			files = append(files, arg)
			continue
		}
		matches, globErr := doublestar.FilepathGlob(arg)
		if globErr != nil || len(matches) == 0 {
			return nil, fmt.Errorf("no tour files match %s", arg)
		}
		files = append(files, matches...)
	}
	return files, nil
}

// LoadFiles decodes every tour in files. Invalid tours are reported through
// the returned error while valid ones are still returned.
func LoadFiles(files []string) ([]domain.TourDefinition, error) {
	var (
		tours []domain.TourDefinition
		errs  []error
	)
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f, err))
			continue
		}
		decoded, err := schema.DecodeDocument(f, data)
		tours = append(tours, decoded...)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f, err))
		}
	}
	if len(errs) > 0 {
		return tours, &schema.AggregateError{Errors: errs}
	}
	return tours, nil
}

// PickTour returns the tour with the given id, or the first one when id is empty.
func PickTour(tours []domain.TourDefinition, id string) (*domain.TourDefinition, error) {
	if len(tours) == 0 {
		return nil, errors.New("no tours found")
	}
	if id == "" {
		return &tours[0], nil
	}
	catalog := domain.Catalog{Tours: tours}
	tour := catalog.Find(id)
	if tour == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTourNotFound, id)
	}
	return tour, nil
}

// Validate checks tour files against the schema, prints a report, then
// lints the valid tours together.
func Validate(out io.Writer, args []string) error {
	files, err := ExpandFiles(args)
	if err != nil {
		return err
	}

	var all []domain.TourDefinition
	failed := 0
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		tours, err := schema.DecodeDocument(f, data)
		if err != nil {
			failed++
			fmt.Fprintf(out, "✗ %s\n", f)
			errs := schema.ValidationErrors(err)
			if len(errs) == 0 {
				errs = []error{err}
			}
			for _, e := range errs {
				fmt.Fprintf(out, "    %v\n", e)
			}
			continue
		}
		all = append(all, tours...)
		ids := make([]string, 0, len(tours))
		for _, t := range tours {
			ids = append(ids, t.ID)
		}
		fmt.Fprintf(out, "✓ %s (%s)\n", f, strings.Join(ids, ", "))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files are invalid", failed, len(files))
	}
	return validator.ValidateTours(all)
}

// Match prints which tours, and which of their pages, apply to url.
// It returns the number of matching tours.
func Match(out io.Writer, url string, tours []domain.TourDefinition) int {
	m := match.New()
	n := 0
	for i := range tours {
		t := &tours[i]
		idx := m.FindPage(t, url)
		if idx < 0 {
			continue
		}
		n++
		p := t.Pages[idx]
		fmt.Fprintf(out, "%s\tpage %d\t%s %q\t%s\n", t.ID, idx, p.URLMatchMode, p.URLPattern, t.Trigger.Mode)
	}
	if n == 0 {
		fmt.Fprintf(out, "no tour matches %s\n", url)
	}
	return n
}
