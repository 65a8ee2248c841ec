package runner

import (
	"github.com/yaklabco/tokmark/pkg/buffer"
	"github.com/yaklabco/tokmark/pkg/syntax"
)

// Line is one highlighted line.
type Line struct {
	// Number is 1-based.
	Number int

	// Text is the line without its terminator.
	Text string

	// Tokens partition Text.
	Tokens []syntax.Token
}

// FileResult is the highlighting of one file.
type FileResult struct {
	// Path is the file path, or "-" for standard input.
	Path string

	// Mode is the name of the mode used.
	Mode string

	// Fallback is true when no mode matched or the mode's grammar failed
	// to load, and the file was highlighted as plain text.
	Fallback bool

	// Skipped is true for files that were not highlighted, such as binaries.
	Skipped bool

	// SkipReason explains a skip.
	SkipReason string

	// Lines are the highlighted lines. A final line terminator does not
	// produce an empty last line.
	Lines []Line

	// Stats records the lexing work done.
	Stats buffer.Stats
}

// TokenCount returns the number of tokens across all lines.
func (f *FileResult) TokenCount() int {
	n := 0
	for _, line := range f.Lines {
		n += len(line.Tokens)
	}
	return n
}

// FileOutcome wraps a FileResult with resolved path metadata.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Result is nil if the file encountered an error during processing.
	Result *FileResult

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files highlighted.
	FilesProcessed int

	// FilesSkipped is the number of files skipped (e.g., binaries).
	FilesSkipped int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// FilesFallback is the number of files highlighted as plain text.
	FilesFallback int

	// LinesTotal is the number of lines highlighted.
	LinesTotal int

	// TokensTotal is the number of tokens produced.
	TokensTotal int

	// TokensByKind maps token kind names to counts.
	TokensByKind map[string]int

	// FilesByMode maps mode names to the number of files using them.
	FilesByMode map[string]int
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats

	// Errors contains any non-file-specific errors encountered.
	Errors []error
}

// HasErrors reports whether any file failed to process.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || len(r.Errors) > 0
}

// NewResult builds a Result from outcomes produced outside Run, such as
// the highlighting of standard input.
func NewResult(outcomes ...FileOutcome) *Result {
	result := &Result{Stats: newStats()}
	for _, outcome := range outcomes {
		result.Stats.FilesDiscovered++
		result.accumulate(outcome)
	}
	return result
}

func newStats() Stats {
	return Stats{
		TokensByKind: make(map[string]int),
		FilesByMode:  make(map[string]int),
	}
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}
	if outcome.Result.Skipped {
		r.Stats.FilesSkipped++
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.FilesByMode[outcome.Result.Mode]++
	if outcome.Result.Fallback {
		r.Stats.FilesFallback++
	}

	for _, line := range outcome.Result.Lines {
		r.Stats.LinesTotal++
		r.Stats.TokensTotal += len(line.Tokens)
		for _, tok := range line.Tokens {
			r.Stats.TokensByKind[tok.Kind.String()]++
		}
	}
}
