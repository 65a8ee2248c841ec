package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/tokmark/pkg/runner"
)

// jsonVersion is the version of the JSON document layout.
const jsonVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path       string     `json:"path"`
	Mode       string     `json:"mode,omitempty"`
	Fallback   bool       `json:"fallback,omitempty"`
	Skipped    bool       `json:"skipped,omitempty"`
	SkipReason string     `json:"skipReason,omitempty"`
	Error      string     `json:"error,omitempty"`
	Lines      []JSONLine `json:"lines"`
}

// JSONLine is one highlighted line.
type JSONLine struct {
	Number int         `json:"number"`
	Text   string      `json:"text"`
	Tokens []JSONToken `json:"tokens"`
}

// JSONToken is one token. Offset and length are in bytes.
type JSONToken struct {
	Kind   string `json:"kind"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Text   string `json:"text"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesDiscovered int            `json:"filesDiscovered"`
	FilesProcessed  int            `json:"filesProcessed"`
	FilesSkipped    int            `json:"filesSkipped"`
	FilesErrored    int            `json:"filesErrored"`
	FilesFallback   int            `json:"filesFallback"`
	Lines           int            `json:"lines"`
	Tokens          int            `json:"tokens"`
	TokensByKind    map[string]int `json:"tokensByKind"`
	FilesByMode     map[string]int `json:"filesByMode"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesProcessed, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{
			TokensByKind: make(map[string]int),
			FilesByMode:  make(map[string]int),
		},
	}

	if result == nil {
		return output
	}

	stats := result.Stats
	output.Summary.FilesDiscovered = stats.FilesDiscovered
	output.Summary.FilesProcessed = stats.FilesProcessed
	output.Summary.FilesSkipped = stats.FilesSkipped
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.FilesFallback = stats.FilesFallback
	output.Summary.Lines = stats.LinesTotal
	output.Summary.Tokens = stats.TokensTotal
	for kind, n := range stats.TokensByKind {
		output.Summary.TokensByKind[kind] = n
	}
	for name, n := range stats.FilesByMode {
		output.Summary.FilesByMode[name] = n
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		output.Files = append(output.Files, r.buildFile(file))
	}

	return output
}

func (r *JSONReporter) buildFile(file runner.FileOutcome) JSONFileResult {
	out := JSONFileResult{
		Path:  r.opts.displayPath(file.Path),
		Lines: make([]JSONLine, 0),
	}
	if file.Error != nil {
		out.Error = file.Error.Error()
		return out
	}
	fr := file.Result
	if fr == nil {
		return out
	}

	out.Mode = fr.Mode
	out.Fallback = fr.Fallback
	out.Skipped = fr.Skipped
	out.SkipReason = fr.SkipReason

	out.Lines = make([]JSONLine, 0, len(fr.Lines))
	for _, line := range fr.Lines {
		jl := JSONLine{
			Number: line.Number,
			Text:   line.Text,
			Tokens: make([]JSONToken, 0, len(line.Tokens)),
		}
		for _, tok := range line.Tokens {
			jl.Tokens = append(jl.Tokens, JSONToken{
				Kind:   tok.Kind.String(),
				Offset: tok.Offset,
				Length: tok.Length,
				Text:   tok.Text(line.Text),
			})
		}
		out.Lines = append(out.Lines, jl)
	}
	return out
}
