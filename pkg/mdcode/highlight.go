package mdcode

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/tokmark/internal/logging"
	"github.com/yaklabco/tokmark/pkg/langdetect"
	"github.com/yaklabco/tokmark/pkg/mode"
	"github.com/yaklabco/tokmark/pkg/runner"
)

// HighlightedBlock is a code block with its highlighting.
type HighlightedBlock struct {
	Block

	// Mode is the name of the mode used.
	Mode string

	// Fallback is true when the block was highlighted as plain text.
	Fallback bool

	// Lines are numbered by their line in the Markdown document.
	Lines []runner.Line
}

// Highlighter highlights the code blocks of Markdown documents with modes
// from a shared Provider.
type Highlighter struct {
	provider  *mode.Provider
	extractor *Extractor
	logger    *log.Logger
}

// NewHighlighter creates a Highlighter. A nil logger uses the default logger.
func NewHighlighter(provider *mode.Provider, logger *log.Logger) *Highlighter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Highlighter{
		provider:  provider,
		extractor: NewExtractor(FlavorGFM),
		logger:    logger,
	}
}

// Highlight extracts and highlights every fenced code block of content.
func (h *Highlighter) Highlight(ctx context.Context, path string, content []byte) ([]HighlightedBlock, error) {
	blocks, err := h.extractor.Extract(ctx, content)
	if err != nil {
		return nil, err
	}

	out := make([]HighlightedBlock, 0, len(blocks))
	for _, block := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m := h.ResolveMode(block)
		fr := runner.HighlightText(path, m, block.Content)
		if block.Content == "" {
			fr.Lines = nil
		}
		for i := range fr.Lines {
			fr.Lines[i].Number += block.StartLine - 1
		}

		h.logger.Debug("highlighted code block",
			logging.FieldPath, path,
			logging.FieldLine, block.StartLine,
			logging.FieldMode, fr.Mode,
		)
		out = append(out, HighlightedBlock{
			Block:    block,
			Mode:     fr.Mode,
			Fallback: fr.Fallback,
			Lines:    fr.Lines,
		})
	}
	return out, nil
}

// ResolveMode picks the mode for a block. The info string language is
// tried as a mode name or alias, then as a language alias known to
// go-enry. Blocks without a language are detected from their content.
// Anything else is plain text.
func (h *Highlighter) ResolveMode(block Block) *mode.Mode {
	lang := strings.ToLower(strings.TrimSpace(block.Lang))

	var candidates []string
	if lang != "" {
		candidates = append(candidates, lang, langdetect.ForAlias(lang))
	} else {
		candidates = append(candidates, langdetect.Detect([]byte(block.Content)))
	}
	candidates = append(candidates, runner.FallbackMode)

	for _, name := range candidates {
		if name == "" || !h.provider.Has(name) {
			continue
		}
		if m, err := h.provider.Mode(name); err == nil {
			return m
		}
	}
	return mode.Plain(runner.FallbackMode, mode.Association{})
}
