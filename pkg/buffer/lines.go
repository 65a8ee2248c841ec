package buffer

import (
	"slices"
	"strings"

	"github.com/yaklabco/tokmark/pkg/syntax"
)

// NoInvalidLine is the watermark value meaning every cached context is
// valid.
const NoInvalidLine = -1

// LineManager tracks where each line starts, the line context cached for
// the end of each line, and the first line whose cached context can no
// longer be trusted. It does not own the text.
type LineManager struct {
	starts       []int
	contexts     []*syntax.LineContext
	firstInvalid int
}

// NewLineManager indexes text. No context is known yet, so every line is
// invalid.
func NewLineManager(text string) *LineManager {
	starts := append([]int{0}, newlineStarts(text, 0)...)
	return &LineManager{
		starts:       starts,
		contexts:     make([]*syntax.LineContext, len(starts)),
		firstInvalid: 0,
	}
}

// newlineStarts returns the offsets following each '\n' in text, shifted
// by base.
func newlineStarts(text string, base int) []int {
	var starts []int
	for i := 0; ; {
		j := strings.IndexByte(text[i:], '\n')
		if j < 0 {
			return starts
		}
		i += j + 1
		starts = append(starts, base+i)
	}
}

// LineCount returns the number of lines. An empty document has one line.
func (lm *LineManager) LineCount() int { return len(lm.starts) }

// LineStart returns the offset of the first character of line.
func (lm *LineManager) LineStart(line int) int { return lm.starts[line] }

// LineOfOffset returns the line containing offset. An offset just after a
// newline belongs to the following line.
func (lm *LineManager) LineOfOffset(offset int) int {
	i, found := slices.BinarySearch(lm.starts, offset)
	if found {
		return i
	}
	return i - 1
}

// ContextOf returns the cached context at the end of line. It may be stale
// when line is at or past the watermark, and nil if the line was never
// lexed.
func (lm *LineManager) ContextOf(line int) *syntax.LineContext { return lm.contexts[line] }

// SetContextOf caches the context at the end of line.
func (lm *LineManager) SetContextOf(line int, ctx *syntax.LineContext) { lm.contexts[line] = ctx }

// FirstInvalidLine returns the watermark, or NoInvalidLine.
func (lm *LineManager) FirstInvalidLine() int { return lm.firstInvalid }

// SetFirstInvalidLine sets the watermark.
func (lm *LineManager) SetFirstInvalidLine(line int) { lm.firstInvalid = line }

// Invalidate lowers the watermark to line. It never raises it.
func (lm *LineManager) Invalidate(line int) {
	if lm.firstInvalid == NoInvalidLine || line < lm.firstInvalid {
		lm.firstInvalid = line
	}
}

// InvalidateAll marks every line invalid and drops the cached contexts.
func (lm *LineManager) InvalidateAll() {
	clear(lm.contexts)
	lm.firstInvalid = 0
}

// contentInserted records that text was inserted at offset.
func (lm *LineManager) contentInserted(offset int, text string) {
	line := lm.LineOfOffset(offset)
	for i := line + 1; i < len(lm.starts); i++ {
		lm.starts[i] += len(text)
	}

	added := newlineStarts(text, offset)
	if len(added) > 0 {
		lm.starts = slices.Insert(lm.starts, line+1, added...)
		lm.contexts = slices.Insert(lm.contexts, line+1, make([]*syntax.LineContext, len(added))...)
	}
	lm.Invalidate(line)
}

// contentRemoved records that length bytes were removed at offset.
func (lm *LineManager) contentRemoved(offset, length int) {
	line := lm.LineOfOffset(offset)
	end := offset + length

	// Lines whose preceding newline was removed merge into line.
	last := line
	for last+1 < len(lm.starts) && lm.starts[last+1] <= end {
		last++
	}
	if last > line {
		lm.starts = slices.Delete(lm.starts, line+1, last+1)
		lm.contexts = slices.Delete(lm.contexts, line+1, last+1)
	}
	for i := line + 1; i < len(lm.starts); i++ {
		lm.starts[i] -= length
	}
	lm.Invalidate(line)
}
