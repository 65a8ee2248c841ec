package configloader

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/tokmark/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "styles.COMMENT1.foreground").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// knownLogLevels lists valid log_level values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

//nolint:gochecknoglobals // Compiled once.
var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.TabWidth < config.MinTabWidth || cfg.TabWidth > config.MaxTabWidth {
		result.addError("tab_width", cfg.TabWidth,
			"tab_width must be between %d and %d", config.MinTabWidth, config.MaxTabWidth)
	}

	if cfg.LogLevel != "" && !knownLogLevels[strings.ToLower(cfg.LogLevel)] {
		result.addError("log_level", cfg.LogLevel,
			"invalid log level %q; must be one of: debug, info, warn, error", cfg.LogLevel)
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.addError("format", cfg.Format,
			"invalid format %q; must be one of: text, tokens, json, summary", cfg.Format)
	}

	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.addError("color", cfg.Color,
			"invalid color mode %q; must be one of: auto, always, never", cfg.Color)
	}

	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	validateStyles(cfg.Styles, "styles", result)

	for _, name := range sortedKeys(cfg.Modes) {
		mc := cfg.Modes[name]
		field := "modes." + name
		validateGlob(mc.FileNameGlob, field+".file_name_glob", result)
		validateGlob(mc.FirstLineGlob, field+".first_line_glob", result)
		validateStyles(mc.Styles, field+".styles", result)
	}

	for i, pattern := range cfg.Ignore {
		validateGlob(pattern, fmt.Sprintf("ignore[%d]", i), result, '/')
	}

	return result
}

func validateStyles(styles map[string]config.StyleConfig, field string, result *ValidationResult) {
	for _, key := range sortedKeys(styles) {
		style := styles[key]
		if _, ok := ResolveKindKey(key); !ok {
			result.addError(field+"."+key, key, "unknown token kind %q", key)
			continue
		}
		if style == (config.StyleConfig{}) {
			result.Warnings = append(result.Warnings, ValidationError{
				Field: field + "." + key, Value: key, Message: "style sets nothing and has no effect",
			})
		}
		if !IsValidColor(style.Foreground) {
			result.addError(field+"."+key+".foreground", style.Foreground,
				"invalid color %q; use an ANSI number (0-255) or #rrggbb", style.Foreground)
		}
		if !IsValidColor(style.Background) {
			result.addError(field+"."+key+".background", style.Background,
				"invalid color %q; use an ANSI number (0-255) or #rrggbb", style.Background)
		}
	}
}

func validateGlob(pattern, field string, result *ValidationResult, separators ...rune) {
	if pattern == "" {
		return
	}
	if _, err := glob.Compile(pattern, separators...); err != nil {
		result.addError(field, pattern, "invalid glob pattern: %v", err)
	}
}

// IsValidColor reports whether s is empty, an ANSI color number, or a hex color.
func IsValidColor(s string) bool {
	if s == "" {
		return true
	}
	if hexColor.MatchString(s) {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 255
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
