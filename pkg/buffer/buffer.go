// Package buffer holds editable documents and highlights them
// incrementally: after an edit only the lines whose starting context may
// have changed are lexed again, and only when somebody asks for them.
package buffer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/tokmark/pkg/mode"
	"github.com/yaklabco/tokmark/pkg/syntax"
)

// ErrOutOfRange is returned by edits that reach outside the document.
var ErrOutOfRange = errors.New("out of range")

// Stats counts the work a Buffer has done.
type Stats struct {
	// LinesLexed is the number of lines handed to the TokenMarker.
	LinesLexed int

	// MarkCalls is the number of MarkTokens calls.
	MarkCalls int
}

// Buffer is a document bound to a mode. A Buffer is not safe for
// concurrent use; the Mode it references is, and may be shared.
type Buffer struct {
	text   string
	lines  *LineManager
	mode   *mode.Mode
	marker *syntax.TokenMarker
	stats  Stats
}

// New creates a buffer holding text, highlighted with m.
func New(m *mode.Mode, text string) *Buffer {
	return &Buffer{
		text:   text,
		lines:  NewLineManager(text),
		mode:   m,
		marker: m.TokenMarker(),
	}
}

// Mode returns the active mode.
func (b *Buffer) Mode() *mode.Mode { return b.mode }

// SetMode switches the language. Every cached context is dropped.
func (b *Buffer) SetMode(m *mode.Mode) {
	b.mode = m
	b.marker = m.TokenMarker()
	b.lines.InvalidateAll()
}

// Text returns the whole document.
func (b *Buffer) Text() string { return b.text }

// Len returns the document length in bytes.
func (b *Buffer) Len() int { return len(b.text) }

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int { return b.lines.LineCount() }

// LineOfOffset returns the line containing offset.
func (b *Buffer) LineOfOffset(offset int) int { return b.lines.LineOfOffset(offset) }

// LineStartOffset returns the offset at which line starts.
func (b *Buffer) LineStartOffset(line int) int {
	b.checkLine("LineStartOffset", line)
	return b.lines.LineStart(line)
}

// LineText returns line without its terminator ("\n" or "\r\n").
// It panics if line is out of range.
func (b *Buffer) LineText(line int) string {
	b.checkLine("LineText", line)

	start := b.lines.LineStart(line)
	end := len(b.text)
	if line+1 < b.lines.LineCount() {
		end = b.lines.LineStart(line+1) - 1
	}
	return strings.TrimSuffix(b.text[start:end], "\r")
}

// FirstInvalidLine returns the first line whose cached context is not
// trusted, or NoInvalidLine.
func (b *Buffer) FirstInvalidLine() int { return b.lines.FirstInvalidLine() }

// LineContext returns the cached context at the end of line and whether it
// is valid for the current text.
func (b *Buffer) LineContext(line int) (*syntax.LineContext, bool) {
	b.checkLine("LineContext", line)
	watermark := b.lines.FirstInvalidLine()
	valid := watermark == NoInvalidLine || line < watermark
	return b.lines.ContextOf(line), valid
}

// Stats returns the work counters.
func (b *Buffer) Stats() Stats { return b.stats }

// Insert inserts text at offset.
func (b *Buffer) Insert(offset int, text string) error {
	if offset < 0 || offset > len(b.text) {
		return fmt.Errorf("insert at %d in document of length %d: %w", offset, len(b.text), ErrOutOfRange)
	}
	if text == "" {
		return nil
	}
	b.text = b.text[:offset] + text + b.text[offset:]
	b.lines.contentInserted(offset, text)
	return nil
}

// Remove deletes length bytes starting at offset.
func (b *Buffer) Remove(offset, length int) error {
	if offset < 0 || length < 0 || offset+length > len(b.text) {
		return fmt.Errorf("remove [%d, %d) in document of length %d: %w",
			offset, offset+length, len(b.text), ErrOutOfRange)
	}
	if length == 0 {
		return nil
	}
	b.text = b.text[:offset] + b.text[offset+length:]
	b.lines.contentRemoved(offset, length)
	return nil
}

// MarkTokens lexes line and passes its tokens to handler. Lines between
// the watermark and line are lexed first with a discarding handler so that
// line starts from a valid context. Lines after line are not touched; the
// watermark is only moved past line when its end context is unchanged.
//
// It panics if line is out of range.
func (b *Buffer) MarkTokens(line int, handler syntax.Handler) {
	count := b.lines.LineCount()
	if line < 0 || line >= count {
		panic(fmt.Sprintf("buffer: MarkTokens line %d out of range [0, %d)", line, count))
	}
	if handler == nil {
		handler = syntax.Discard
	}
	b.stats.MarkCalls++

	watermark := b.lines.FirstInvalidLine()
	start := line
	if watermark != NoInvalidLine {
		start = min(watermark, line)
	}

	oldContext := b.lines.ContextOf(line)
	var newContext *syntax.LineContext
	for i := start; i <= line; i++ {
		var prev *syntax.LineContext
		if i > 0 {
			prev = b.lines.ContextOf(i - 1)
		}
		h := syntax.Discard
		if i == line {
			h = handler
		}
		newContext = b.marker.MarkTokens(prev, h, b.LineText(i))
		b.lines.SetContextOf(i, newContext)
		b.stats.LinesLexed++
	}

	switch {
	case line == count-1:
		b.lines.SetFirstInvalidLine(NoInvalidLine)
	case !newContext.Equal(oldContext):
		b.lines.SetFirstInvalidLine(line + 1)
	case watermark == NoInvalidLine:
	default:
		b.lines.SetFirstInvalidLine(max(watermark, line+1))
	}
}

// Tokens returns the tokens of line.
func (b *Buffer) Tokens(line int) []syntax.Token {
	var col syntax.Collector
	b.MarkTokens(line, &col)
	return col.Tokens
}

// TokenAt returns the token covering byte column col of line.
func (b *Buffer) TokenAt(line, col int) (syntax.Token, bool) {
	for _, tok := range b.Tokens(line) {
		if col >= tok.Offset && col < tok.End() {
			return tok, true
		}
	}
	return syntax.Token{}, false
}

func (b *Buffer) checkLine(op string, line int) {
	if count := b.lines.LineCount(); line < 0 || line >= count {
		panic(fmt.Sprintf("buffer: %s line %d out of range [0, %d)", op, line, count))
	}
}
