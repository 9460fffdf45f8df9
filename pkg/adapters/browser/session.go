package browser

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/clickpath/internal/logging"
	"github.com/playwright-community/playwright-go"
)

// Defaults for new sessions.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
	DefaultTimeout        = 30000 // ms
)

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Install downloads the driver and browsers before launching.
	Install bool

	Width  int
	Height int

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64

	Logger *slog.Logger
}

// Session owns a Playwright driver, a Chromium browser and one page.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	logger  *slog.Logger
}

// Launch starts Playwright and opens a page.
func Launch(opts SessionOptions) (*Session, error) {
	if opts.Width == 0 || opts.Height == 0 {
		opts.Width, opts.Height = DefaultViewportWidth, DefaultViewportHeight
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	// Keep driver output away from the terminal
	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if opts.Install {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: opts.Width, Height: opts.Height},
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(opts.Timeout)

	logger.Info("browser session started", "headless", opts.Headless, "width", opts.Width, "height", opts.Height)
	return &Session{pw: pw, browser: browser, context: bctx, page: page, logger: logger}, nil
}

// Page returns the Playwright page.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Context returns the browser context holding the page's cookies.
func (s *Session) Context() playwright.BrowserContext {
	return s.context
}

// Navigate loads url and waits for the DOM to be ready.
func (s *Session) Navigate(url string) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// Closed is closed when the user closes the page.
func (s *Session) Closed() <-chan struct{} {
	done := make(chan struct{})
	s.page.OnClose(func(playwright.Page) { close(done) })
	return done
}

// Close releases the page, browser and driver. Errors are ignored so
// cleanup always runs to the end.
func (s *Session) Close() error {
	_ = s.page.Close()
	_ = s.context.Close()
	_ = s.browser.Close()
	if err := s.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}
