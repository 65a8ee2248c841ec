package pretty

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/tokmark/internal/configloader"
	"github.com/yaklabco/tokmark/pkg/config"
	"github.com/yaklabco/tokmark/pkg/syntax"
)

// defaultPalette is the built-in style of each token kind.
//
//nolint:gochecknoglobals // Read-only lookup table.
var defaultPalette = map[syntax.Kind]config.StyleConfig{
	syntax.Comment1: {Foreground: "8", Italic: ptr(true)},
	syntax.Comment2: {Foreground: "8", Italic: ptr(true)},
	syntax.Comment3: {Foreground: "6", Italic: ptr(true)},
	syntax.Comment4: {Foreground: "8"},
	syntax.Literal1: {Foreground: "2"},
	syntax.Literal2: {Foreground: "10"},
	syntax.Literal3: {Foreground: "3"},
	syntax.Literal4: {Foreground: "11"},
	syntax.Label:    {Foreground: "5"},
	syntax.Keyword1: {Foreground: "4", Bold: ptr(true)},
	syntax.Keyword2: {Foreground: "5"},
	syntax.Keyword3: {Foreground: "6"},
	syntax.Keyword4: {Foreground: "13"},
	syntax.Function: {Foreground: "3"},
	syntax.Markup:   {Foreground: "12"},
	syntax.Operator: {Foreground: "7"},
	syntax.Digit:    {Foreground: "13"},
	syntax.Invalid:  {Foreground: "15", Background: "1"},
}

func ptr[T any](v T) *T { return &v }

type kindStyles map[syntax.Kind]lipgloss.Style

// Theme maps (mode, token kind) pairs to styles. It is immutable once
// built and safe for concurrent use.
type Theme struct {
	enabled bool
	base    kindStyles
	modes   map[string]kindStyles
}

// NewTheme builds a theme from the default palette, the global styles of
// cfg and the per-mode styles of cfg. A disabled theme renders text as is.
func NewTheme(r *lipgloss.Renderer, colorEnabled bool, cfg *config.Config) *Theme {
	theme := &Theme{enabled: colorEnabled, modes: make(map[string]kindStyles)}
	if !colorEnabled {
		return theme
	}

	global := make(map[syntax.Kind]config.StyleConfig, len(defaultPalette))
	for kind, style := range defaultPalette {
		global[kind] = style
	}
	if cfg != nil {
		overlay(global, cfg.Styles)
	}
	theme.base = build(r, global)

	if cfg == nil {
		return theme
	}
	for name, mc := range cfg.Modes {
		if len(mc.Styles) == 0 {
			continue
		}
		perMode := make(map[syntax.Kind]config.StyleConfig, len(global))
		for kind, style := range global {
			perMode[kind] = style
		}
		overlay(perMode, mc.Styles)
		theme.modes[name] = build(r, perMode)
	}
	return theme
}

// Enabled reports whether the theme emits styles.
func (t *Theme) Enabled() bool { return t.enabled }

// Style returns the style of kind in mode.
func (t *Theme) Style(mode string, kind syntax.Kind) lipgloss.Style {
	if styles, ok := t.modes[mode]; ok {
		return styles[kind]
	}
	return t.base[kind]
}

// Render styles text as a token of kind in mode.
func (t *Theme) Render(mode string, kind syntax.Kind, text string) string {
	if !t.enabled || text == "" {
		return text
	}
	styles, ok := t.modes[mode]
	if !ok {
		styles = t.base
	}
	style, ok := styles[kind]
	if !ok {
		return text
	}
	return style.Render(text)
}

func overlay(dst map[syntax.Kind]config.StyleConfig, src map[string]config.StyleConfig) {
	for key, style := range src {
		canonical, ok := configloader.ResolveKindKey(key)
		if !ok {
			continue
		}
		kind, err := syntax.ParseKind(canonical)
		if err != nil {
			continue
		}
		dst[kind] = dst[kind].Overlay(style)
	}
}

func build(r *lipgloss.Renderer, styles map[syntax.Kind]config.StyleConfig) kindStyles {
	out := make(kindStyles, len(styles))
	for kind, sc := range styles {
		out[kind] = toLipgloss(r, sc)
	}
	return out
}

func toLipgloss(r *lipgloss.Renderer, sc config.StyleConfig) lipgloss.Style {
	style := r.NewStyle()
	if sc.Foreground != "" {
		style = style.Foreground(lipgloss.Color(sc.Foreground))
	}
	if sc.Background != "" {
		style = style.Background(lipgloss.Color(sc.Background))
	}
	if sc.Bold != nil {
		style = style.Bold(*sc.Bold)
	}
	if sc.Italic != nil {
		style = style.Italic(*sc.Italic)
	}
	if sc.Underline != nil {
		style = style.Underline(*sc.Underline)
	}
	return style
}
