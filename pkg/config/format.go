package config

import "fmt"

// Formats returns every output format.
func Formats() []OutputFormat {
	return []OutputFormat{FormatText, FormatTokens, FormatJSON, FormatSummary}
}

// IsValid reports whether f is a known format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatTokens, FormatJSON, FormatSummary:
		return true
	default:
		return false
	}
}

// ParseFormat converts a flag value to an OutputFormat.
func ParseFormat(value string) (OutputFormat, error) {
	format := OutputFormat(value)
	if !format.IsValid() {
		return "", fmt.Errorf("unknown format %q (valid: text, tokens, json, summary)", value)
	}
	return format, nil
}

// IsValid reports whether m is a known color mode.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// ParseColorMode converts a flag value to a ColorMode.
func ParseColorMode(value string) (ColorMode, error) {
	mode := ColorMode(value)
	if !mode.IsValid() {
		return "", fmt.Errorf("unknown color mode %q (valid: auto, always, never)", value)
	}
	return mode, nil
}
