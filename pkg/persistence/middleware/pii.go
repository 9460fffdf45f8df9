package middleware

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/aretw0/clickpath/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

type piiMiddleware struct {
	next     ports.Store
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks JSON fields whose names
// match one of the patterns before values reach the store. Values that are
// not JSON objects or arrays pass through untouched.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.Store) ports.Store {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Set(ctx context.Context, key string, value []byte) error {
	var doc any
	if len(m.patterns) == 0 || json.Unmarshal(value, &doc) != nil {
		return m.next.Set(ctx, key, value)
	}
	if !mask(doc, m.patterns) {
		return m.next.Set(ctx, key, value)
	}
	masked, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return m.next.Set(ctx, key, masked)
}

func (m *piiMiddleware) Get(ctx context.Context, key string) ([]byte, error) {
	return m.next.Get(ctx, key)
}

func (m *piiMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *piiMiddleware) List(ctx context.Context, prefix string) ([]string, error) {
	return m.next.List(ctx, prefix)
}

// mask redacts matching fields in place and reports whether anything changed.
// The decoded document is private to the call, so in-place is safe.
func mask(v any, patterns []*regexp.Regexp) bool {
	changed := false
	switch t := v.(type) {
	case map[string]any:
		for k, sub := range t {
			if matchAny(k, patterns) {
				t[k] = Mask
				changed = true
				continue
			}
			if mask(sub, patterns) {
				changed = true
			}
		}
	case []any:
		for _, sub := range t {
			if mask(sub, patterns) {
				changed = true
			}
		}
	}
	return changed
}

func matchAny(k string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(k) {
			return true
		}
	}
	return false
}
