package reporter

import (
	"io"
	"strings"

	"github.com/yaklabco/tokmark/internal/ui/pretty"
	"github.com/yaklabco/tokmark/pkg/runner"
)

// LineRenderer turns highlighted lines into styled terminal text.
// It is shared by the text reporter and the blocks command.
type LineRenderer struct {
	theme    *pretty.Theme
	styles   *pretty.Styles
	tabWidth int
	numbers  bool
}

// NewLineRenderer creates a renderer. With numbers set every line is
// prefixed with a right-aligned line number gutter.
func NewLineRenderer(theme *pretty.Theme, styles *pretty.Styles, tabWidth int, numbers bool) *LineRenderer {
	return &LineRenderer{theme: theme, styles: styles, tabWidth: tabWidth, numbers: numbers}
}

// RenderLines writes lines highlighted in mode to w.
func (lr *LineRenderer) RenderLines(w io.Writer, mode string, lines []runner.Line) error {
	gutter := 0
	if lr.numbers && len(lines) > 0 {
		gutter = pretty.GutterWidth(lines[len(lines)-1].Number)
	}
	for _, line := range lines {
		if _, err := io.WriteString(w, lr.RenderLine(mode, line, gutter)); err != nil {
			return err
		}
	}
	return nil
}

// RenderLine renders one line, including its terminating newline.
// Text not covered by a token is written unstyled.
func (lr *LineRenderer) RenderLine(mode string, line runner.Line, gutter int) string {
	var b strings.Builder
	if lr.numbers {
		b.WriteString(lr.styles.FormatLineNumber(line.Number, gutter))
	}

	col, pos := 0, 0
	var text string
	for _, tok := range line.Tokens {
		if tok.Offset != pos {
			break
		}
		text, col = pretty.ExpandTabs(tok.Text(line.Text), col, lr.tabWidth)
		b.WriteString(lr.theme.Render(mode, tok.Kind, text))
		pos = tok.End()
	}
	if pos < len(line.Text) {
		text, _ = pretty.ExpandTabs(line.Text[pos:], col, lr.tabWidth)
		b.WriteString(text)
	}

	b.WriteByte('\n')
	return b.String()
}
