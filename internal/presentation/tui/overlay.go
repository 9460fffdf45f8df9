// Package tui renders tours in a terminal.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/charmbracelet/lipgloss"
)

// DefaultWidth is the tooltip width in columns.
const DefaultWidth = 60

// Overlay implements ports.Overlay by printing each step as a bordered card.
// Sizes it reports are in terminal cells, not pixels.
type Overlay struct {
	mu       sync.Mutex
	out      io.Writer
	width    int
	markdown func(string) (string, error)
	verbose  bool

	mounted bool
	card    lipgloss.Style
	title   lipgloss.Style
	muted   lipgloss.Style
	button  lipgloss.Style
}

// Option configures an Overlay.
type Option func(*Overlay)

// WithWidth sets the card width in columns.
func WithWidth(width int) Option {
	return func(o *Overlay) {
		o.width = width
	}
}

// WithMarkdown renders step content through fn, typically NewRenderer.
func WithMarkdown(fn func(string) (string, error)) Option {
	return func(o *Overlay) {
		o.markdown = fn
	}
}

// WithVerbose also prints the highlight rect and tooltip position.
func WithVerbose(verbose bool) Option {
	return func(o *Overlay) {
		o.verbose = verbose
	}
}

// NewOverlay creates an overlay printing to out.
func NewOverlay(out io.Writer, opts ...Option) *Overlay {
	o := &Overlay{out: out, width: DefaultWidth}
	for _, opt := range opts {
		opt(o)
	}
	o.applyColors(domain.ThemeColors{})
	return o
}

func (o *Overlay) applyColors(c domain.ThemeColors) {
	o.card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(o.width)
	o.title = lipgloss.NewStyle().Bold(true)
	o.muted = lipgloss.NewStyle().Faint(true)
	o.button = lipgloss.NewStyle().Bold(true)

	if c.Border != "" {
		o.card = o.card.BorderForeground(lipgloss.Color(c.Border))
	}
	if c.Primary != "" {
		o.card = o.card.BorderForeground(lipgloss.Color(c.Primary))
		o.title = o.title.Foreground(lipgloss.Color(c.Primary))
		o.button = o.button.Foreground(lipgloss.Color(c.Primary))
	}
	if c.TextMuted != "" {
		o.muted = o.muted.Foreground(lipgloss.Color(c.TextMuted))
	}
}

func (o *Overlay) Mount(ctx context.Context, colors domain.ThemeColors) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.applyColors(colors)
	o.mounted = true
	return nil
}

func (o *Overlay) Show(ctx context.Context, view domain.StepView) (domain.Size, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	card := o.render(view)
	if _, err := fmt.Fprintln(o.out, card); err != nil {
		return domain.Size{}, fmt.Errorf("failed to write step: %w", err)
	}
	return domain.Size{
		Width:  float64(lipgloss.Width(card)),
		Height: float64(lipgloss.Height(card)),
	}, nil
}

func (o *Overlay) render(view domain.StepView) string {
	content := view.Content
	if o.markdown != nil {
		if rendered, err := o.markdown(content); err == nil {
			content = strings.Trim(rendered, "\n")
		}
	}

	parts := []string{o.title.Render(view.Title), content}
	if view.ShowProgress && view.Indicator != "" {
		parts = append(parts, o.muted.Render(view.Indicator))
	}

	var buttons []string
	if view.ShowBack {
		buttons = append(buttons, o.button.Render("[b] "+view.BackLabel))
	}
	if view.ShowNext {
		buttons = append(buttons, o.button.Render("[n] "+view.NextLabel))
	}
	if view.ShowSkip {
		buttons = append(buttons, o.button.Render("[s] "+view.SkipLabel))
	}
	if len(buttons) > 0 {
		parts = append(parts, "", strings.Join(buttons, "  "))
	}
	if o.verbose {
		if view.Highlight != nil {
			h := view.Highlight
			parts = append(parts, o.muted.Render(fmt.Sprintf("target %.0fx%.0f at (%.0f, %.0f)", h.Width, h.Height, h.Left, h.Top)))
		} else {
			parts = append(parts, o.muted.Render("no target"))
		}
	}

	return o.card.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (o *Overlay) Place(ctx context.Context, tooltip domain.Point) error {
	if !o.verbose {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := fmt.Fprintln(o.out, o.muted.Render(fmt.Sprintf("tooltip at (%.0f, %.0f)", tooltip.Left, tooltip.Top)))
	return err
}

func (o *Overlay) Unmount(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.mounted {
		return nil
	}
	o.mounted = false
	_, err := fmt.Fprintln(o.out, o.muted.Render("tour closed"))
	return err
}
