// Package cli provides the Cobra command structure for tokmark.
package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/tokmark/internal/ui/pretty"
	"github.com/yaklabco/tokmark/pkg/syntax"
)

// Help text is painted with token kinds so that it follows the default
// theme: headings look like keywords, commands like function names.
const (
	helpHeading = syntax.Keyword1
	helpCommand = syntax.Function
	helpSub     = syntax.Label
	helpFlag    = syntax.Keyword2
	helpType    = syntax.Keyword3
	helpExample = syntax.Comment1
)

const helpUsageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}
{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ join .Aliases ", " }}{{end}}
{{- if .HasExample}}

{{ heading "Examples:" }}
{{ example .Example }}{{end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ sub (pad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}{{end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}{{end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}{{end}}
{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.{{end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trim . }}

{{end}}` + helpUsageTemplate

// helpPainter renders cobra help through a token theme.
type helpPainter struct {
	theme *pretty.Theme
}

// newHelpPainter resolves colorMode ("auto", "always", "never") against w.
func newHelpPainter(colorMode string, w io.Writer) helpPainter {
	enabled := pretty.IsColorEnabled(colorMode, w)
	return helpPainter{theme: pretty.NewTheme(pretty.NewRenderer(w, enabled), enabled, nil)}
}

func (p helpPainter) paint(kind syntax.Kind) func(string) string {
	return func(s string) string { return p.theme.Render("", kind, s) }
}

func (p helpPainter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading": p.paint(helpHeading),
		"command": p.paint(helpCommand),
		"sub":     p.paint(helpSub),
		"example": p.paint(helpExample),
		"flags":   p.flagUsages,
		"join":    strings.Join,
		"pad":     pad,
		"trim":    trimLines,
	}
}

type flagRow struct {
	names string
	typ   string
	usage string
}

// flagUsages lays out visible flags in two aligned columns. Widths are
// measured before styling.
func (p helpPainter) flagUsages(fs *pflag.FlagSet) string {
	var rows []flagRow
	width := 0
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		row := flagRow{names: "    --" + f.Name}
		if f.Shorthand != "" {
			row.names = "-" + f.Shorthand + ", --" + f.Name
		}
		row.typ, row.usage = pflag.UnquoteUsage(f)
		if def := defaultText(f, row.typ); def != "" {
			row.usage += " (default " + def + ")"
		}
		width = max(width, len(row.names)+len(row.typ)+1)
		rows = append(rows, row)
	})

	flagStyle, typeStyle := p.paint(helpFlag), p.paint(helpType)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		left := len(row.names)
		var b strings.Builder
		b.WriteString("  ")
		b.WriteString(flagStyle(row.names))
		if row.typ != "" {
			b.WriteString(" ")
			b.WriteString(typeStyle(row.typ))
			left += len(row.typ) + 1
		}
		b.WriteString(strings.Repeat(" ", width-left+3))
		b.WriteString(row.usage)
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func defaultText(f *pflag.Flag, typ string) string {
	switch f.DefValue {
	case "", "false", "0", "[]":
		return ""
	}
	if typ == "string" {
		return fmt.Sprintf("%q", f.DefValue)
	}
	return f.DefValue
}

// applyHelp installs the styled templates on cmd; subcommands inherit
// them. colorMode is read when help is rendered, after flags are parsed.
func applyHelp(cmd *cobra.Command, colorMode *string) {
	render := func(c *cobra.Command, name, text string, w io.Writer) error {
		p := newHelpPainter(*colorMode, w)
		tmpl, err := template.New(name).Funcs(p.funcs()).Parse(text)
		if err != nil {
			return fmt.Errorf("parse %s template: %w", name, err)
		}
		if err := tmpl.Execute(w, c); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		return nil
	}

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return render(c, "usage", helpUsageTemplate, c.OutOrStderr())
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := render(c, "help", helpTemplate, c.OutOrStdout()); err != nil {
			c.PrintErrln(err)
		}
	})
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
