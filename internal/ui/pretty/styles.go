// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Styles contains the styled renderers for CLI chrome (headers, summaries,
// tables). Token styles live in Theme.
type Styles struct {
	// Messages
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// File output
	FilePath   lipgloss.Style
	LineNumber lipgloss.Style
	ModeName   lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Table styles
	TableHeader    lipgloss.Style
	TableBorder    lipgloss.Style
	TableLegend    lipgloss.Style
	TableSeparator lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewRenderer returns a lipgloss renderer for w. With color enabled it
// always emits ANSI 256 colors, even when w is not a terminal, so that
// --color=always works through pipes.
func NewRenderer(w io.Writer, colorEnabled bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if colorEnabled {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	return NewStylesFor(NewRenderer(os.Stdout, colorEnabled), colorEnabled)
}

// NewStylesFor creates Styles bound to a renderer.
func NewStylesFor(r *lipgloss.Renderer, colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles(r)
	}
	return newColorStyles(r)
}

func newColorStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Info:    r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),

		FilePath:   r.NewStyle().Bold(true),
		LineNumber: r.NewStyle().Foreground(lipgloss.Color("8")),
		ModeName:   r.NewStyle().Foreground(lipgloss.Color("14")),

		SummaryTitle: r.NewStyle().Bold(true),
		SummaryValue: r.NewStyle(),
		Success:      r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure:      r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		TableHeader:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableBorder:    r.NewStyle().Foreground(lipgloss.Color("8")),
		TableLegend:    r.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		TableSeparator: r.NewStyle().Foreground(lipgloss.Color("8")),

		Dim:  r.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: r.NewStyle().Bold(true),
	}
}

func newNoColorStyles(r *lipgloss.Renderer) *Styles {
	plain := r.NewStyle()
	return &Styles{
		Error:          plain,
		Warning:        plain,
		Info:           plain,
		FilePath:       plain,
		LineNumber:     plain,
		ModeName:       plain,
		SummaryTitle:   plain,
		SummaryValue:   plain,
		Success:        plain,
		Failure:        plain,
		TableHeader:    plain,
		TableBorder:    plain,
		TableLegend:    plain,
		TableSeparator: plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
