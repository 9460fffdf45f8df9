// Package match decides whether a tour page definition applies to a URL.
package match

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/dlclark/regexp2"
	"github.com/gobwas/glob"
)

// regexTimeout bounds a single regex evaluation against a URL.
const regexTimeout = 100 * time.Millisecond

type cacheKey struct {
	mode    domain.MatchMode
	pattern string
}

// compiled holds either a glob or a regex; invalid patterns are cached as
// a nil matcher so the compile error is only logged once.
type compiled struct {
	glob  glob.Glob
	regex *regexp2.Regexp
}

// Matcher matches URLs against page rules. Compiled patterns are cached.
// Safe for concurrent use.
type Matcher struct {
	cache  sync.Map // map[cacheKey]*compiled
	logger *slog.Logger
}

// Option configures the Matcher.
type Option func(*Matcher)

// WithLogger configures a logger for invalid pattern reports.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		m.logger = logger
	}
}

// New creates a Matcher.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var defaultMatcher = New()

// Matches reports whether url satisfies page using a shared Matcher.
func Matches(url string, page domain.TourPage) bool {
	return defaultMatcher.Matches(url, page)
}

// FindPage returns the index of the first page of tour matching url, or -1.
func FindPage(tour *domain.TourDefinition, url string) int {
	return defaultMatcher.FindPage(tour, url)
}

// Matches reports whether url satisfies the page rule.
// It never fails: an invalid pattern simply does not match.
func (m *Matcher) Matches(url string, page domain.TourPage) bool {
	switch page.URLMatchMode {
	case domain.MatchExact:
		return url == page.URLPattern
	case domain.MatchContains:
		return strings.Contains(url, page.URLPattern)
	case domain.MatchRegex:
		c := m.compile(domain.MatchRegex, page.URLPattern)
		if c == nil {
			return false
		}
		ok, err := c.regex.MatchString(url)
		if err != nil {
			m.logger.Warn("URL regex evaluation failed", "pattern", page.URLPattern, "err", err)
			return false
		}
		return ok
	case domain.MatchGlob:
		c := m.compile(domain.MatchGlob, page.URLPattern)
		if c == nil {
			return false
		}
		return c.glob.Match(url)
	default:
		return strings.Contains(url, page.URLPattern)
	}
}

// FindPage returns the index of the first page of tour matching url, or -1.
func (m *Matcher) FindPage(tour *domain.TourDefinition, url string) int {
	for i, page := range tour.Pages {
		if m.Matches(url, page) {
			return i
		}
	}
	return -1
}

// AnyPage reports whether some page of tour matches url.
func (m *Matcher) AnyPage(tour *domain.TourDefinition, url string) bool {
	return m.FindPage(tour, url) >= 0
}

func (m *Matcher) compile(mode domain.MatchMode, pattern string) *compiled {
	key := cacheKey{mode: mode, pattern: pattern}
	if cached, ok := m.cache.Load(key); ok {
		return cached.(*compiled)
	}

	c, err := compilePattern(mode, pattern)
	if err != nil {
		m.logger.Warn("Invalid URL pattern, page will never match", "mode", mode, "pattern", pattern, "err", err)
	}
	actual, _ := m.cache.LoadOrStore(key, c)
	return actual.(*compiled)
}

func compilePattern(mode domain.MatchMode, pattern string) (*compiled, error) {
	switch mode {
	case domain.MatchRegex:
		// Tours are authored against JavaScript RegExp semantics.
		re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
		if err != nil {
			return nil, fmt.Errorf("compile regex: %w", err)
		}
		re.MatchTimeout = regexTimeout
		return &compiled{regex: re}, nil
	case domain.MatchGlob:
		// No separators: '*' spans any sequence including '/', '?' is one character.
		g, err := glob.Compile(quoteGlob(pattern))
		if err != nil {
			return nil, fmt.Errorf("compile glob: %w", err)
		}
		return &compiled{glob: g}, nil
	default:
		return nil, fmt.Errorf("mode %q has no compiled form", mode)
	}
}

// quoteGlob escapes everything except '*' and '?', so braces, brackets and
// backslashes in a URL pattern match themselves.
func quoteGlob(pattern string) string {
	var sb strings.Builder
	start := 0
	for i, r := range pattern {
		if r != '*' && r != '?' {
			continue
		}
		sb.WriteString(glob.QuoteMeta(pattern[start:i]))
		sb.WriteRune(r)
		start = i + 1
	}
	sb.WriteString(glob.QuoteMeta(pattern[start:]))
	return sb.String()
}

// Check reports whether the page's pattern compiles under its mode.
// Exact, contains and unknown modes always compile.
func Check(page domain.TourPage) error {
	switch page.URLMatchMode {
	case domain.MatchRegex, domain.MatchGlob:
		_, err := compilePattern(page.URLMatchMode, page.URLPattern)
		return err
	}
	return nil
}
