package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/clickpath"
	"github.com/aretw0/clickpath/internal/config"
	"github.com/aretw0/clickpath/internal/presentation/tui"
	"github.com/aretw0/clickpath/pkg/adapters/memory"
	"github.com/aretw0/clickpath/pkg/domain"
)

// PreviewOptions configures a terminal preview of a tour.
type PreviewOptions struct {
	Files  []string
	TourID string

	// URL is the virtual page address. When empty it is derived from the
	// tour's first page.
	URL string

	Input  io.Reader
	Output io.Writer

	// Headless walks every step without prompting.
	Headless bool
	// TTY enables styled markdown and the banner.
	TTY     bool
	Width   int
	Verbose bool
	Logger  *slog.Logger
}

// Preview plays a tour from files in the terminal. The virtual page has no
// elements, so every step renders without a target.
func Preview(ctx context.Context, opts PreviewOptions) error {
	files, err := ExpandFiles(opts.Files)
	if err != nil {
		return err
	}
	tours, err := LoadFiles(files)
	if err != nil {
		return err
	}
	tour, err := PickTour(tours, opts.TourID)
	if err != nil {
		return err
	}

	url := opts.URL
	if url == "" {
		if url, err = SampleURL(tour.Pages[0]); err != nil {
			return err
		}
	}

	width := opts.Width
	if width <= 0 {
		width = tui.DefaultWidth
	}
	if opts.TTY && !opts.Headless {
		tui.PrintBanner(opts.Output, clickpath.Version)
	}

	overlay := tui.NewOverlay(opts.Output,
		tui.WithWidth(width),
		tui.WithMarkdown(tui.NewRenderer(opts.TTY, width-4)),
		tui.WithVerbose(opts.Verbose),
	)
	cfg := config.Default()
	cfg.Tour.CacheEnabled = false
	engine, err := NewEngine(cfg, EngineOptions{
		Page:    memory.NewPage(url, domain.Size{Width: float64(cfg.Browser.Width), Height: float64(cfg.Browser.Height)}),
		Overlay: overlay,
		Bundled: memory.NewSource(tours...),
		Logger:  opts.Logger,
	})
	if err != nil {
		return err
	}
	if err := engine.Init(ctx); err != nil {
		return err
	}

	runner := clickpath.NewRunner()
	runner.Input = opts.Input
	runner.Output = opts.Output
	runner.Headless = opts.Headless
	return runner.Run(ctx, engine, tour.ID)
}

// SampleURL returns a URL matched by page, for patterns where one can be
// derived. Regex patterns need an explicit URL.
func SampleURL(page domain.TourPage) (string, error) {
	switch page.URLMatchMode {
	case domain.MatchRegex:
		return "", fmt.Errorf("page pattern %q is a regex, pass --url", page.URLPattern)
	case domain.MatchGlob:
		r := strings.NewReplacer("*", "preview", "?", "x")
		return r.Replace(page.URLPattern), nil
	default:
		return page.URLPattern, nil
	}
}
