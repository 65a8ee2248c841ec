package pretty

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table formatting constants.
const (
	tablePadding   = 2
	heavySeparator = "="
	lightSeparator = "-"
)

// FormatTable formats rows under headers with aligned columns, a heavy
// separator under the header and at the end. Cells are measured in display
// columns, so wide runes align.
func (s *Styles) FormatTable(headers []string, rows [][]string) string {
	return s.FormatGroupedTable(headers, [][][]string{rows})
}

// FormatGroupedTable is FormatTable with a light separator between groups.
func (s *Styles) FormatGroupedTable(headers []string, groups [][][]string) string {
	var rows [][]string
	for _, g := range groups {
		rows = append(rows, g...)
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	var builder strings.Builder
	builder.WriteString(s.TableHeader.Render(formatCells(headers, widths)))
	builder.WriteString("\n")
	builder.WriteString(s.separator(widths, heavySeparator))
	for i, group := range groups {
		if i > 0 {
			builder.WriteString(s.separator(widths, lightSeparator))
		}
		for _, row := range group {
			builder.WriteString(formatCells(row, widths))
			builder.WriteString("\n")
		}
	}
	builder.WriteString(s.separator(widths, heavySeparator))
	return builder.String()
}

// FormatLegend formats a dim footnote under a table.
func (s *Styles) FormatLegend(text string) string {
	return s.TableLegend.Render(text) + "\n"
}

func (s *Styles) separator(widths []int, char string) string {
	total := 0
	for _, w := range widths {
		total += w
	}
	total += tablePadding * (len(widths) - 1)
	return s.TableSeparator.Render(strings.Repeat(char, total)) + "\n"
}

func formatCells(cells []string, widths []int) string {
	var b strings.Builder
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if i == len(widths)-1 {
			b.WriteString(cell)
			break
		}
		b.WriteString(runewidth.FillRight(cell, w))
		b.WriteString(strings.Repeat(" ", tablePadding))
	}
	return strings.TrimRight(b.String(), " ")
}
