package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tokmark/pkg/reporter"
	"github.com/yaklabco/tokmark/pkg/runner"
	"github.com/yaklabco/tokmark/pkg/syntax"
)

func tok(kind syntax.Kind, offset, length int) syntax.Token {
	return syntax.Token{Kind: kind, Offset: offset, Length: length}
}

// sampleFile is "int x;\n\tfoo\n" highlighted as C.
func sampleFile(path string) runner.FileOutcome {
	return runner.FileOutcome{
		Path: path,
		Result: &runner.FileResult{
			Path: path,
			Mode: "c",
			Lines: []runner.Line{
				{Number: 1, Text: "int x;", Tokens: []syntax.Token{
					tok(syntax.Keyword3, 0, 3),
					tok(syntax.Null, 3, 2),
					tok(syntax.Operator, 5, 1),
				}},
				{Number: 2, Text: "\tfoo", Tokens: []syntax.Token{
					tok(syntax.Null, 0, 4),
				}},
			},
		},
	}
}

func sampleResult(files ...runner.FileOutcome) *runner.Result {
	result := &runner.Result{
		Files: files,
		Stats: runner.Stats{
			TokensByKind: map[string]int{},
			FilesByMode:  map[string]int{},
		},
	}
	for _, f := range files {
		switch {
		case f.Error != nil:
			result.Stats.FilesErrored++
		case f.Result.Skipped:
			result.Stats.FilesSkipped++
		default:
			result.Stats.FilesProcessed++
			result.Stats.FilesByMode[f.Result.Mode]++
			for _, line := range f.Result.Lines {
				result.Stats.LinesTotal++
				for _, tk := range line.Tokens {
					result.Stats.TokensTotal++
					result.Stats.TokensByKind[tk.Kind.String()]++
				}
			}
		}
	}
	return result
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "tokens", input: "tokens", want: reporter.FormatTokens},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
		{name: "unknown format", input: "sarif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format reporter.Format
		want   bool
	}{
		{reporter.FormatText, true},
		{reporter.FormatTokens, true},
		{reporter.FormatJSON, true},
		{reporter.FormatSummary, true},
		{reporter.Format("unknown"), false},
		{reporter.Format(""), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.format.IsValid(), tt.format)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "tokens reporter", format: reporter.FormatTokens},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "summary reporter", format: reporter.FormatSummary},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: tt.format})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func TestTextReporter_SingleFile(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", TabWidth: 4})

	n, err := rep.Report(context.Background(), sampleResult(sampleFile("a.c")))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "int x;\n    foo\n", buf.String())
}

func TestTextReporter_LineNumbers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		TabWidth:    2,
		LineNumbers: true,
	})

	_, err := rep.Report(context.Background(), sampleResult(sampleFile("a.c")))
	require.NoError(t, err)
	assert.Equal(t, "1 │ int x;\n2 │   foo\n", buf.String())
}

func TestTextReporter_MultipleFiles(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &out,
		ErrorWriter: &errOut,
		Color:       "never",
		ShowSummary: true,
	})

	skipped := runner.FileOutcome{
		Path:   "logo.png",
		Result: &runner.FileResult{Path: "logo.png", Skipped: true, SkipReason: "binary"},
	}
	failed := runner.FileOutcome{Path: "gone.c", Error: errors.New("no such file")}

	n, err := rep.Report(context.Background(), sampleResult(sampleFile("a.c"), failed, skipped, sampleFile("b.c")))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, "a.c [c]\nint x;\n    foo\n\nb.c [c]\nint x;\n    foo\n", out.String())

	diag := errOut.String()
	assert.Contains(t, diag, "gone.c error: no such file")
	assert.Contains(t, diag, "logo.png skipped (binary)")
	assert.Contains(t, diag, "2 files highlighted, 4 lines, 8 tokens, 1 skipped, 1 failed")
}

func TestTextReporter_SharedWriterKeepsOrder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, ErrorWriter: &buf, Color: "never"})

	failed := runner.FileOutcome{Path: "gone.c", Error: errors.New("boom")}
	_, err := rep.Report(context.Background(), sampleResult(failed, sampleFile("a.c")))
	require.NoError(t, err)

	out := buf.String()
	assert.Less(t, strings.Index(out, "gone.c"), strings.Index(out, "a.c [c]"))
}

func TestTextReporter_Color(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "always"})

	_, err := rep.Report(context.Background(), sampleResult(sampleFile("a.c")))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "int")
}

func TestTextReporter_WorkingDir(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowHeaders: true,
		WorkingDir:  "/src/project",
	})

	_, err := rep.Report(context.Background(), sampleResult(sampleFile("/src/project/lib/a.c")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "lib/a.c [c]\n"), buf.String())
}

func TestTextReporter_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep := reporter.NewTextReporter(reporter.Options{Writer: &bytes.Buffer{}, Color: "never"})
	_, err := rep.Report(ctx, sampleResult(sampleFile("a.c")))
	require.ErrorIs(t, err, context.Canceled)
}

func TestTokensReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTokensReporter(reporter.Options{Writer: &buf, Color: "never"})

	n, err := rep.Report(context.Background(), sampleResult(sampleFile("a.c")))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "a.c [c]", lines[0])
	assert.Equal(t, "LINE  COL  LEN  KIND      TEXT", lines[1])
	assert.Equal(t, `1     1    3    KEYWORD3  "int"`, lines[3])
	assert.Equal(t, `1     4    2    NULL      " x"`, lines[4])
	assert.Equal(t, `1     6    1    OPERATOR  ";"`, lines[5])
	assert.Equal(t, `2     1    4    NULL      "\tfoo"`, lines[7])
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	failed := runner.FileOutcome{Path: "gone.c", Error: errors.New("boom")}
	n, err := rep.Report(context.Background(), sampleResult(sampleFile("a.c"), failed))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "compact output is one line")

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "1.0.0", out.Version)
	require.Len(t, out.Files, 2)

	file := out.Files[0]
	assert.Equal(t, "a.c", file.Path)
	assert.Equal(t, "c", file.Mode)
	require.Len(t, file.Lines, 2)
	assert.Equal(t, reporter.JSONToken{Kind: "KEYWORD3", Offset: 0, Length: 3, Text: "int"}, file.Lines[0].Tokens[0])

	assert.Equal(t, "boom", out.Files[1].Error)
	assert.Empty(t, out.Files[1].Lines)

	assert.Equal(t, 1, out.Summary.FilesProcessed)
	assert.Equal(t, 1, out.Summary.FilesErrored)
	assert.Equal(t, 4, out.Summary.Tokens)
	assert.Equal(t, 2, out.Summary.TokensByKind["NULL"])
}

func TestJSONReporter_NilResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	_, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"files": []`)
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		_, err := reporter.NewSummaryReporter(reporter.Options{Writer: &buf, Color: "never"}).
			Report(context.Background(), &runner.Result{})
		require.NoError(t, err)
		assert.Equal(t, "No files highlighted\n", buf.String())
	})

	t.Run("files", func(t *testing.T) {
		t.Parallel()

		plain := sampleFile("notes.txt")
		plain.Result.Mode = "text"
		plain.Result.Fallback = true
		result := sampleResult(sampleFile("a.c"), plain)
		result.Stats.FilesFallback = 1

		var buf bytes.Buffer
		n, err := reporter.NewSummaryReporter(reporter.Options{Writer: &buf, Color: "never"}).
			Report(context.Background(), result)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		out := buf.String()
		assert.Contains(t, out, "FILE       MODE   LINES  TOKENS")
		assert.Contains(t, out, "a.c        c      2      4")
		assert.Contains(t, out, "notes.txt  text*  2      4")
		assert.Contains(t, out, "* highlighted as plain text")
		assert.Contains(t, out, "Highlighting finished")
	})
}
