// Package mdcode extracts fenced code blocks from Markdown documents and
// highlights them with the mode their info string names.
package mdcode

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Flavor identifies the Markdown flavor supported by the extractor.
const (
	FlavorCommonMark = "commonmark"
	FlavorGFM        = "gfm"
)

// Default fence, used when the opening fence cannot be located.
const (
	defaultFenceChar   = '`'
	defaultFenceLength = 3
)

// Block is one fenced code block.
type Block struct {
	// Info is the full info string, such as "go title=main.go".
	Info string

	// Lang is the first word of the info string.
	Lang string

	// FenceChar is '`' or '~'.
	FenceChar byte

	// FenceLength is the number of fence characters.
	FenceLength int

	// FenceLine is the 1-based line of the opening fence.
	FenceLine int

	// StartLine is the 1-based line of the first content line.
	StartLine int

	// Content is the code inside the fences, each line terminated by "\n".
	Content string
}

// Extractor finds fenced code blocks. It is safe for concurrent use.
type Extractor struct {
	flavor string
	md     goldmark.Markdown
}

// NewExtractor creates an extractor for the given flavor.
// Invalid flavors default to "gfm".
func NewExtractor(flavor string) *Extractor {
	f := flavorOrDefault(flavor)
	return &Extractor{
		flavor: f,
		md:     newGoldmarkInstance(f),
	}
}

// Flavor returns the configured Markdown flavor.
func (e *Extractor) Flavor() string {
	return e.flavor
}

// Extract returns the fenced code blocks of content in document order.
func (e *Extractor) Extract(ctx context.Context, content []byte) ([]Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	doc := e.md.Parser().Parse(text.NewReader(content), parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract cancelled: %w", err)
	}

	idx := newLineIndex(content)
	var blocks []Block
	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		blocks = append(blocks, idx.block(fenced))
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}
	return blocks, nil
}

// lineIndex maps byte offsets of a document to line numbers.
type lineIndex struct {
	content []byte
	starts  []int
}

func newLineIndex(content []byte) *lineIndex {
	starts := []int{0}
	for i, c := range content {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{content: content, starts: starts}
}

// lineOf returns the 1-based line containing offset.
func (x *lineIndex) lineOf(offset int) int {
	return sort.SearchInts(x.starts, offset+1)
}

func (x *lineIndex) block(fenced *ast.FencedCodeBlock) Block {
	b := Block{FenceChar: defaultFenceChar, FenceLength: defaultFenceLength}

	if fenced.Info != nil {
		b.Info = strings.TrimSpace(string(fenced.Info.Segment.Value(x.content)))
		b.Lang = string(fenced.Language(x.content))
	}

	var buf strings.Builder
	lines := fenced.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.WriteString(strings.Repeat(" ", seg.Padding))
		buf.Write(seg.Value(x.content))
	}
	b.Content = buf.String()
	if b.Content != "" && !strings.HasSuffix(b.Content, "\n") {
		b.Content += "\n"
	}

	switch {
	case lines.Len() > 0:
		b.StartLine = x.lineOf(lines.At(0).Start)
		b.FenceLine = b.StartLine - 1
	case fenced.Info != nil:
		b.FenceLine = x.lineOf(fenced.Info.Segment.Start)
		b.StartLine = b.FenceLine + 1
	default:
		return b
	}
	if b.FenceLine >= 1 {
		b.FenceChar, b.FenceLength = x.fence(b.FenceLine)
	}
	return b
}

// fence reads the fence character and length from the given 1-based line.
func (x *lineIndex) fence(line int) (byte, int) {
	start := x.starts[line-1]
	end := len(x.content)
	if line < len(x.starts) {
		end = x.starts[line] - 1
	}

	row := bytes.TrimLeft(x.content[start:end], " \t>")
	if len(row) == 0 || (row[0] != '`' && row[0] != '~') {
		return defaultFenceChar, defaultFenceLength
	}

	char := row[0]
	n := 0
	for n < len(row) && row[n] == char {
		n++
	}
	return char, max(n, defaultFenceLength)
}

func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorCommonMark, FlavorGFM:
		return flavor
	default:
		return FlavorGFM
	}
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option
	if flavor == FlavorGFM {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}
	return goldmark.New(opts...)
}
