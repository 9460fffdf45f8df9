package browser

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/playwright-community/playwright-go"
)

// CookieSource lists the cookies the browser holds for the given URLs.
// playwright.BrowserContext implements it.
type CookieSource interface {
	Cookies(urls ...string) ([]playwright.Cookie, error)
}

// CookieJar receives the browser session, typically the host API client.
type CookieJar interface {
	SetCookies(cookies []*http.Cookie) error
}

// Refresher reloads the tour catalog.
type Refresher interface {
	Refresh(ctx context.Context) []domain.TourDefinition
}

// WithSessionSync copies the browser's cookies for hostURL into jar on every
// main-frame navigation. When the session changed, for instance after the
// user logged in, the catalog is refreshed before auto start runs.
func WithSessionSync(src CookieSource, jar CookieJar, r Refresher, hostURL string) BindOption {
	return func(b *binder) {
		b.sync = &sessionSync{src: src, jar: jar, refresher: r, hostURL: hostURL}
	}
}

type sessionSync struct {
	src       CookieSource
	jar       CookieJar
	refresher Refresher
	hostURL   string

	mu   sync.Mutex
	last string
}

// run copies the cookies and reports whether the catalog was refreshed.
func (s *sessionSync) run(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cookies, err := s.src.Cookies(s.hostURL)
	if err != nil {
		return false, fmt.Errorf("failed to read browser cookies: %w", err)
	}
	converted := toHTTPCookies(cookies)
	key := fingerprint(converted)
	if key == s.last {
		return false, nil
	}
	if err := s.jar.SetCookies(converted); err != nil {
		return false, fmt.Errorf("failed to seed cookie jar: %w", err)
	}
	s.last = key
	s.refresher.Refresh(ctx)
	return true, nil
}

func toHTTPCookies(cookies []playwright.Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		hc := &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		// Playwright reports session cookies with -1
		if c.Expires > 0 {
			hc.Expires = time.Unix(int64(c.Expires), 0)
		}
		out = append(out, hc)
	}
	return out
}

func fingerprint(cookies []*http.Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, c.Domain+c.Path+"|"+c.Name+"="+c.Value)
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}
