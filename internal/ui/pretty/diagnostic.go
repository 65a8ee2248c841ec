package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// FormatFileHeader formats the header printed before a file's output.
func (s *Styles) FormatFileHeader(path, mode string, fallback bool) string {
	header := s.FilePath.Render(path) + " " + s.ModeName.Render("["+mode+"]")
	if fallback {
		header += s.Dim.Render(" (plain text)")
	}
	return header
}

// FormatFileError formats a file that could not be processed.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("%s %s %s\n", s.FilePath.Render(path), s.Error.Render("error:"), err)
}

// FormatSkipped formats a file that was skipped.
func (s *Styles) FormatSkipped(path, reason string) string {
	return s.FilePath.Render(path) + s.Dim.Render(" skipped ("+reason+")") + "\n"
}

// FormatWarning formats a non-fatal problem, such as a config warning.
func (s *Styles) FormatWarning(message string) string {
	return s.Warning.Render("warning:") + " " + message + "\n"
}

// FormatLineNumber right-aligns n in a gutter of the given width.
func (s *Styles) FormatLineNumber(n, width int) string {
	num := strconv.Itoa(n)
	if pad := width - len(num); pad > 0 {
		num = strings.Repeat(" ", pad) + num
	}
	return s.LineNumber.Render(num+" │") + " "
}

// GutterWidth returns the width needed to print line numbers up to last.
func GutterWidth(last int) int {
	return len(strconv.Itoa(max(last, 1)))
}

// ExpandTabs replaces tabs with spaces up to the next multiple of
// tabWidth, starting at display column col. It returns the expanded text
// and the display column after it. Wide runes count as two columns.
func ExpandTabs(text string, col, tabWidth int) (string, int) {
	if tabWidth <= 0 {
		tabWidth = 1
	}
	if !strings.ContainsRune(text, '\t') {
		return text, col + runewidth.StringWidth(text)
	}

	var b strings.Builder
	for _, r := range text {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String(), col
}
