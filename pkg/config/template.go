package config

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full documents every token kind and mode. If false, a minimal
	// template is generated.
	Full bool

	// Kinds lists the token kind names that styles may be keyed by.
	Kinds []string

	// Modes describes the registered modes.
	Modes []ModeInfo
}

// ModeInfo describes a mode for template generation.
type ModeInfo struct {
	Name          string
	FileNameGlob  string
	FirstLineGlob string
}

const minimalTemplate = `# tokmark configuration

# Tab stop distance for text output (1-16)
tab_width: 4

# Prefix output lines with line numbers
# line_numbers: true

# Directories holding a catalog.yaml with extra modes
# mode_dirs:
#   - ~/.config/tokmark/modes

# Styles by token kind; colors are ANSI numbers or #rrggbb
# styles:
#   KEYWORD1:
#     foreground: "#c678dd"
#     bold: true
#   COMMENT1:
#     foreground: "8"
#     italic: true

# Per-mode overrides
# modes:
#   c:
#     file_name_glob: "*.{c,h,inc}"

# File patterns to skip
# ignore:
#   - "vendor/**"
`

// GenerateTemplate creates a commented configuration file.
func GenerateTemplate(opts TemplateOptions) []byte {
	if !opts.Full {
		return []byte(minimalTemplate)
	}

	var buf bytes.Buffer
	buf.WriteString(minimalTemplate)

	if len(opts.Kinds) > 0 {
		buf.WriteString("\n# Token kinds that can be styled:\n")
		for _, kind := range slices.Sorted(slices.Values(opts.Kinds)) {
			fmt.Fprintf(&buf, "#   %s\n", kind)
		}
	}

	if len(opts.Modes) > 0 {
		modes := slices.Clone(opts.Modes)
		slices.SortFunc(modes, func(a, b ModeInfo) int { return strings.Compare(a.Name, b.Name) })

		buf.WriteString("\n# Modes and their default associations:\n# modes:\n")
		for _, m := range modes {
			fmt.Fprintf(&buf, "#   %s:\n", m.Name)
			if m.FileNameGlob != "" {
				fmt.Fprintf(&buf, "#     file_name_glob: %q\n", m.FileNameGlob)
			}
			if m.FirstLineGlob != "" {
				fmt.Fprintf(&buf, "#     first_line_glob: %q\n", m.FirstLineGlob)
			}
		}
	}
	return buf.Bytes()
}

// DefaultTemplateHeader returns the header for generated configs.
func DefaultTemplateHeader() string {
	return "# tokmark configuration"
}
