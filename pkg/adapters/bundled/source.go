// Package bundled serves tours shipped with the binary or read from a
// directory. It is the last fallback of the catalog loader.
package bundled

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"github.com/aretw0/clickpath/internal/logging"
	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/schema"
	"github.com/bmatcuk/doublestar/v4"
)

//go:embed tours/*.json
var embedded embed.FS

// DefaultPattern selects tour documents anywhere under the root.
const DefaultPattern = "**/*.{json,yaml,yml}"

// Source implements ports.TourSource over a file system.
type Source struct {
	fsys    fs.FS
	pattern string
	logger  *slog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithPattern sets the doublestar pattern used to find tour files.
func WithPattern(pattern string) Option {
	return func(s *Source) {
		s.pattern = pattern
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// New reads tours from fsys.
func New(fsys fs.FS, opts ...Option) *Source {
	s := &Source{
		fsys:    fsys,
		pattern: DefaultPattern,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDir reads tours from a directory on disk.
func NewDir(dir string, opts ...Option) *Source {
	return New(os.DirFS(dir), opts...)
}

// Default serves the example tour compiled into the binary.
func Default(opts ...Option) *Source {
	sub, _ := fs.Sub(embedded, "tours")
	return New(sub, opts...)
}

// Fetch decodes every matching file. Malformed documents are logged and
// skipped; only a failing glob is an error.
func (s *Source) Fetch(ctx context.Context) (*domain.Catalog, error) {
	matches, err := doublestar.Glob(s.fsys, s.pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob %q: %w", s.pattern, err)
	}
	sort.Strings(matches)

	cat := &domain.Catalog{Origin: domain.OriginBundled}
	seen := make(map[string]bool)
	for _, name := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fs.ReadFile(s.fsys, name)
		if err != nil {
			s.logger.Warn("failed to read tour file", "file", name, "error", err)
			continue
		}

		tours, err := schema.DecodeDocument(name, data)
		if err != nil {
			s.logger.Warn("invalid tour file", "file", name, "error", err)
		}
		for _, t := range tours {
			if seen[t.ID] {
				s.logger.Warn("duplicate tour id", "file", name, "tour", t.ID)
				continue
			}
			seen[t.ID] = true
			cat.Tours = append(cat.Tours, t)
		}
	}
	return cat, nil
}
