// Package theme holds the built-in palettes and resolves the active one from
// the key-value store.
package theme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/aretw0/clickpath/pkg/domain"
	"github.com/aretw0/clickpath/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// Names of the built-in themes.
const (
	NameCorporater = "corporater"
	NameDark       = "dark"
	NameLight      = "light"
	NameCustom     = "custom"
)

var corporater = domain.ThemeColors{
	Primary:      "#0066B3",
	PrimaryDark:  "#004d86",
	PrimaryLight: "#e6f0f9",

	Background: "#ffffff",
	Surface:    "#f8fafc",
	Text:       "#1e293b",
	TextMuted:  "#64748b",
	Border:     "#e2e8f0",

	Success: "#22c55e",
	Warning: "#f59e0b",
	Error:   "#ef4444",
	Info:    "#0066B3",

	OverlayBackground: "rgba(0, 0, 0, 0.75)",
}

var builtins = map[string]domain.Theme{
	NameCorporater: {Name: NameCorporater, Colors: corporater},
	NameDark: {Name: NameDark, Colors: domain.ThemeColors{
		Primary:      "#3b82f6",
		PrimaryDark:  "#2563eb",
		PrimaryLight: "#1e3a5f",

		Background: "#0f172a",
		Surface:    "#1e293b",
		Text:       "#f1f5f9",
		TextMuted:  "#94a3b8",
		Border:     "#334155",

		Success: "#22c55e",
		Warning: "#f59e0b",
		Error:   "#ef4444",
		Info:    "#3b82f6",

		OverlayBackground: "rgba(0, 0, 0, 0.85)",
	}},
	NameLight: {Name: NameLight, Colors: corporater},
}

// Default returns the corporater theme.
func Default() domain.Theme {
	return builtins[NameCorporater]
}

// Builtin looks up a built-in theme by name.
func Builtin(name string) (domain.Theme, bool) {
	t, ok := builtins[name]
	return t, ok
}

// Names lists the built-in themes, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge returns base with every non-empty field of over applied on top.
func Merge(base, over domain.ThemeColors) domain.ThemeColors {
	out := base
	dst := reflect.ValueOf(&out).Elem()
	src := reflect.ValueOf(over)
	for i := 0; i < src.NumField(); i++ {
		if v := src.Field(i).String(); v != "" {
			dst.Field(i).SetString(v)
		}
	}
	return out
}

// Decode reads a partial palette from a loosely typed map, as received on
// the command surfaces. Unknown keys are rejected.
func Decode(input map[string]any) (domain.ThemeColors, error) {
	var colors domain.ThemeColors
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &colors,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return colors, err
	}
	if err := dec.Decode(input); err != nil {
		return colors, fmt.Errorf("invalid theme colors: %w", err)
	}
	return colors, nil
}

// Resolve picks the active theme: custom colors merged over the default
// first, then a named built-in theme, then the default. Store failures are
// returned alongside the default theme.
func Resolve(ctx context.Context, store ports.Store) (domain.Theme, error) {
	raw, err := store.Get(ctx, domain.KeyCustomColors)
	switch {
	case err == nil:
		var custom domain.ThemeColors
		if err := json.Unmarshal(raw, &custom); err != nil {
			return Default(), fmt.Errorf("failed to decode custom colors: %w", err)
		}
		return domain.Theme{Name: NameCustom, Colors: Merge(Default().Colors, custom)}, nil
	case !errors.Is(err, domain.ErrKeyNotFound):
		return Default(), fmt.Errorf("failed to read custom colors: %w", err)
	}

	raw, err = store.Get(ctx, domain.KeyTheme)
	switch {
	case err == nil:
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			name = string(raw)
		}
		if t, ok := Builtin(name); ok {
			return t, nil
		}
	case !errors.Is(err, domain.ErrKeyNotFound):
		return Default(), fmt.Errorf("failed to read theme: %w", err)
	}

	return Default(), nil
}

// SaveColors stores a partial palette as the custom colors.
func SaveColors(ctx context.Context, store ports.Store, colors domain.ThemeColors) error {
	data, err := json.Marshal(colors)
	if err != nil {
		return fmt.Errorf("failed to encode colors: %w", err)
	}
	if err := store.Set(ctx, domain.KeyCustomColors, data); err != nil {
		return fmt.Errorf("failed to save colors: %w", err)
	}
	return nil
}

// SaveName selects a built-in theme and clears custom colors.
func SaveName(ctx context.Context, store ports.Store, name string) error {
	if _, ok := Builtin(name); !ok {
		return fmt.Errorf("unknown theme %q", name)
	}
	data, _ := json.Marshal(name)
	if err := store.Set(ctx, domain.KeyTheme, data); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	if err := store.Delete(ctx, domain.KeyCustomColors); err != nil {
		return fmt.Errorf("failed to clear custom colors: %w", err)
	}
	return nil
}

// Variable is a CSS custom property.
type Variable struct {
	Name  string
	Value string
}

// CSSVariables maps a palette to the --clickpath-* custom properties, in a
// stable order. Empty colors are left out.
func CSSVariables(c domain.ThemeColors) []Variable {
	all := []Variable{
		{"--clickpath-primary", c.Primary},
		{"--clickpath-primary-dark", c.PrimaryDark},
		{"--clickpath-primary-light", c.PrimaryLight},
		{"--clickpath-background", c.Background},
		{"--clickpath-surface", c.Surface},
		{"--clickpath-text", c.Text},
		{"--clickpath-text-muted", c.TextMuted},
		{"--clickpath-border", c.Border},
		{"--clickpath-success", c.Success},
		{"--clickpath-warning", c.Warning},
		{"--clickpath-error", c.Error},
		{"--clickpath-info", c.Info},
		{"--clickpath-overlay-bg", c.OverlayBackground},
	}
	out := all[:0]
	for _, v := range all {
		if v.Value != "" {
			out = append(out, v)
		}
	}
	return out
}

// CSS renders the palette as a rule block for selector.
func CSS(selector string, c domain.ThemeColors) string {
	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, v := range CSSVariables(c) {
		fmt.Fprintf(&b, "  %s: %s;\n", v.Name, v.Value)
	}
	b.WriteString("}\n")
	return b.String()
}
