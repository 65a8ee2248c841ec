// Package config defines the configuration types for tokmark.
// These are pure data structures; discovery and merging live in
// internal/configloader.
package config

// OutputFormat selects how highlighted files are written.
type OutputFormat string

const (
	// FormatText writes the source with ANSI styles.
	FormatText OutputFormat = "text"
	// FormatTokens lists every token with its kind and position.
	FormatTokens OutputFormat = "tokens"
	// FormatJSON writes tokens as JSON.
	FormatJSON OutputFormat = "json"
	// FormatSummary writes per-file and per-kind token counts.
	FormatSummary OutputFormat = "summary"
)

// ColorMode controls ANSI styling of text output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Default values.
const (
	DefaultTabWidth = 4
	MinTabWidth     = 1
	MaxTabWidth     = 16
)

// StyleConfig describes how one token kind is drawn. Colors are ANSI
// numbers ("12") or hex ("#ff8800"); an empty color leaves it unset.
type StyleConfig struct {
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
	Bold       *bool  `yaml:"bold,omitempty"`
	Italic     *bool  `yaml:"italic,omitempty"`
	Underline  *bool  `yaml:"underline,omitempty"`
}

// ModeConfig overrides the association or styles of one mode.
type ModeConfig struct {
	// FileNameGlob replaces the mode's file name glob when set.
	FileNameGlob string `yaml:"file_name_glob,omitempty"`

	// FirstLineGlob replaces the mode's first-line glob when set.
	FirstLineGlob string `yaml:"first_line_glob,omitempty"`

	// Styles are keyed by token kind name and apply to this mode only.
	Styles map[string]StyleConfig `yaml:"styles,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	// TabWidth is the tab stop distance used by text output.
	TabWidth int `yaml:"tab_width,omitempty"`

	// LineNumbers prefixes text output lines with their number.
	LineNumbers *bool `yaml:"line_numbers,omitempty"`

	// ModeDirs lists directories holding a catalog.yaml of extra modes.
	// Their modes are registered after the built-in ones and win ties.
	ModeDirs []string `yaml:"mode_dirs,omitempty"`

	// Modes holds per-mode overrides keyed by mode name.
	Modes map[string]ModeConfig `yaml:"modes,omitempty"`

	// Styles are keyed by token kind name and apply to every mode.
	Styles map[string]StyleConfig `yaml:"styles,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// Mode forces a mode for every input instead of resolving one.
	Mode string `yaml:"-"`

	// Color controls ANSI styling.
	Color ColorMode `yaml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	lineNumbers := false
	return &Config{
		TabWidth:    DefaultTabWidth,
		LineNumbers: &lineNumbers,
		Modes:       make(map[string]ModeConfig),
		Styles:      make(map[string]StyleConfig),
		LogLevel:    "warn",
		Format:      FormatText,
		Color:       ColorAuto,
		Jobs:        0, // 0 means use GOMAXPROCS
	}
}

// ShowLineNumbers reports whether line numbers are enabled.
func (c *Config) ShowLineNumbers() bool {
	return c.LineNumbers != nil && *c.LineNumbers
}

// StylesFor returns the style overrides for mode: the global styles with
// the mode's own styles layered on top.
func (c *Config) StylesFor(mode string) map[string]StyleConfig {
	out := make(map[string]StyleConfig, len(c.Styles))
	for kind, style := range c.Styles {
		out[kind] = style
	}
	if mc, ok := c.Modes[mode]; ok {
		for kind, style := range mc.Styles {
			out[kind] = out[kind].Overlay(style)
		}
	}
	return out
}

// Overlay returns s with every field set in other replacing s's value.
func (s StyleConfig) Overlay(other StyleConfig) StyleConfig {
	if other.Foreground != "" {
		s.Foreground = other.Foreground
	}
	if other.Background != "" {
		s.Background = other.Background
	}
	if other.Bold != nil {
		s.Bold = other.Bold
	}
	if other.Italic != nil {
		s.Italic = other.Italic
	}
	if other.Underline != nil {
		s.Underline = other.Underline
	}
	return s
}
