package pretty

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/tokmark/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 files highlighted (1 plain text), 120 lines, 640 tokens, 1 skipped".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesProcessed == 0 && stats.FilesErrored == 0 {
		msg := s.Dim.Render("No files highlighted")
		if stats.FilesSkipped > 0 {
			msg += s.Dim.Render(fmt.Sprintf(" (%d skipped)", stats.FilesSkipped))
		}
		return msg + "\n"
	}

	main := fmt.Sprintf("%d %s highlighted", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles))
	if stats.FilesFallback > 0 {
		main += s.Dim.Render(fmt.Sprintf(" (%d plain text)", stats.FilesFallback))
	}

	parts := []string{
		s.Success.Render(main),
		fmt.Sprintf("%d %s", stats.LinesTotal, plural(stats.LinesTotal, "line", "lines")),
		fmt.Sprintf("%d %s", stats.TokensTotal, plural(stats.TokensTotal, "token", "tokens")),
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block with per-mode
// and per-kind breakdowns.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files highlighted: " + s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")
	if stats.FilesFallback > 0 {
		builder.WriteString("  Plain text:        " + s.Dim.Render(strconv.Itoa(stats.FilesFallback)) + "\n")
	}
	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:     " + s.Dim.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files failed:      " + s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}
	builder.WriteString("  Lines:             " + s.SummaryValue.Render(strconv.Itoa(stats.LinesTotal)) + "\n")
	builder.WriteString("  Tokens:            " + s.SummaryValue.Render(strconv.Itoa(stats.TokensTotal)) + "\n")

	if len(stats.FilesByMode) > 0 {
		builder.WriteString("\n")
		builder.WriteString(s.FormatTable([]string{"MODE", "FILES"}, countRows(stats.FilesByMode)))
	}
	if len(stats.TokensByKind) > 0 {
		builder.WriteString("\n")
		builder.WriteString(s.FormatTable([]string{"KIND", "TOKENS"}, countRows(stats.TokensByKind)))
	}

	builder.WriteString("\n")
	if stats.FilesErrored > 0 {
		builder.WriteString(s.Failure.Render("Highlighting finished with errors"))
	} else {
		builder.WriteString(s.Success.Render("Highlighting finished"))
	}
	builder.WriteString("\n")

	return builder.String()
}

// countRows sorts counts by descending count, then name.
func countRows(counts map[string]int) [][]string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strconv.Itoa(counts[name])})
	}
	return rows
}
