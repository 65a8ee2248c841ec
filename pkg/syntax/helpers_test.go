package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// piece is a token reduced to what tests compare.
type piece struct {
	Kind Kind
	Text string
}

func pieces(tokens []Token, line string) []piece {
	out := make([]piece, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, piece{Kind: tok.Kind, Text: tok.Text(line)})
	}
	return out
}

// lex marks one line and checks that the tokens partition it.
func lex(t *testing.T, main *RuleSet, prev *LineContext, line string) ([]piece, *LineContext) {
	t.Helper()

	var col Collector
	ctx := NewTokenMarker(main).MarkTokens(prev, &col, line)
	require.NotNil(t, ctx)
	require.True(t, ValidateTokens(col.Tokens, len(line)), "tokens do not partition %q: %+v", line, col.Tokens)
	return pieces(col.Tokens, line), ctx
}

// newCSet builds a small C-like rule set.
func newCSet() *RuleSet {
	main := NewRuleSet("c", "MAIN")

	keywords := NewKeywordMap(false)
	keywords.Add("int", Keyword3)
	keywords.Add("return", Keyword1)

	main.Define(RuleSetProps{HighlightDigits: true, Escape: `\`, NoWordSep: "_"}, []*Rule{
		{Type: RuleSpan, Kind: Comment1, Start: "/*", End: "*/"},
		{Type: RuleEOLSpan, Kind: Comment2, Start: "//"},
		{Type: RuleSpan, Kind: Literal1, Start: `"`, End: `"`, NoLineBreak: true},
		{Type: RuleSeq, Kind: Operator, Start: ";"},
		{Type: RuleMarkPrevious, Kind: Function, Start: "(", ExcludeMatch: true},
		{Type: RuleMarkFollowing, Kind: Keyword2, Start: "$"},
		{Type: RuleSeq, Kind: Keyword4, Start: "#", AtLineStart: true},
	}, keywords, nil)
	return main
}
