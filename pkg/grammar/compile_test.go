package grammar

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tokmark/pkg/syntax"
)

// docs returns a Source serving the given YAML documents by mode name.
func docs(t *testing.T, byMode map[string]string) Source {
	t.Helper()
	return SourceFunc(func(mode string) (*Document, error) {
		text, ok := byMode[mode]
		if !ok {
			return nil, fmt.Errorf("no grammar for %s", mode)
		}
		return Parse([]byte(text))
	})
}

func ruleStarts(rs *syntax.RuleSet) []string {
	var out []string
	for _, rule := range rs.Rules() {
		out = append(out, rule.Start)
	}
	return out
}

func lexLine(rs *syntax.RuleSet, line string) []string {
	var col syntax.Collector
	syntax.NewTokenMarker(rs).MarkTokens(nil, &col, line)
	out := make([]string, 0, len(col.Tokens))
	for _, tok := range col.Tokens {
		out = append(out, tok.Kind.String()+":"+tok.Text(line))
	}
	return out
}

const cGrammar = `
name: c
props:
  lineComment: "//"
rulesets:
  - name: MAIN
    highlight_digits: true
    escape: '\'
    rules:
      - {type: SPAN, kind: COMMENT1, begin: "/*", end: "*/"}
      - {type: EOL_SPAN, kind: COMMENT2, begin: "//"}
      - {type: EOL_SPAN, kind: KEYWORD2, begin: "#", delegate: CPP}
      - {type: SEQ, kind: OPERATOR, text: ";"}
    keywords:
      KEYWORD1: [return, auto]
      KEYWORD3: [int]
  - name: CPP
    default: KEYWORD2
    rules:
      - {type: SPAN, kind: LITERAL1, begin: "<", end: ">"}
`

const cppGrammar = `
name: cplusplus
rulesets:
  - name: MAIN
    highlight_digits: true
    imports: ["c::MAIN"]
    rules:
      - {type: SEQ, kind: OPERATOR, text: "::"}
    keywords:
      KEYWORD1: [class]
      KEYWORD3: [auto]
`

func TestCompile_Basic(t *testing.T) {
	compiled, err := Compile("c", docs(t, map[string]string{"c": cGrammar}))
	require.NoError(t, err)

	assert.Equal(t, "c", compiled.Mode)
	assert.Equal(t, "//", compiled.Props["lineComment"])
	assert.Empty(t, compiled.Warnings)
	require.NotNil(t, compiled.Main)
	assert.Equal(t, "c::MAIN", compiled.Main.QualifiedName())

	cpp, ok := compiled.Set("CPP")
	require.True(t, ok)
	assert.Equal(t, syntax.Keyword2, cpp.Default())

	delegated := compiled.Main.Rules()[2].Delegate
	assert.Same(t, cpp, delegated, "delegates point into the same graph")

	assert.Equal(t, []string{"KEYWORD3:int", "OPERATOR:;"}, lexLine(compiled.Main, "int;"))
	assert.Equal(t,
		[]string{"KEYWORD2:#", "KEYWORD2:include ", "LITERAL1:<", "LITERAL1:stdio.h", "LITERAL1:>"},
		lexLine(compiled.Main, "#include <stdio.h>"))
}

func TestCompile_ImportAcrossModes(t *testing.T) {
	src := docs(t, map[string]string{"c": cGrammar, "cplusplus": cppGrammar})

	compiled, err := Compile("cplusplus", src)
	require.NoError(t, err)

	main := compiled.Main
	assert.Equal(t, []string{"::", "/*", "//", "#", ";"}, ruleStarts(main), "own rules first, then imported ones")
	assert.Equal(t, []string{"c::MAIN"}, main.Imports())

	kind, ok := main.Keywords().Lookup("auto")
	require.True(t, ok)
	assert.Equal(t, syntax.Keyword3, kind, "own keywords win over imported ones")
	kind, _ = main.Keywords().Lookup("return")
	assert.Equal(t, syntax.Keyword1, kind)

	// The imported "#" rule keeps delegating to the C preprocessor set,
	// compiled into this mode's own graph.
	cppSet, ok := compiled.Set("c::CPP")
	require.True(t, ok)
	assert.Same(t, cppSet, main.Rules()[3].Delegate)

	cCompiled, err := Compile("c", src)
	require.NoError(t, err)
	assert.NotSame(t, cCompiled.Main, compiled.Sets["c::MAIN"], "modes do not share rule sets")
}

func TestCompile_MutualImports(t *testing.T) {
	src := docs(t, map[string]string{"m": `
name: m
rulesets:
  - name: A
    imports: [B]
    rules: [{type: SEQ, kind: OPERATOR, text: a}]
  - name: B
    imports: [A, C]
    rules: [{type: SEQ, kind: OPERATOR, text: b}]
  - name: C
    imports: [A]
    rules: [{type: SEQ, kind: OPERATOR, text: c}]
`})

	compiled, err := Compile("m", src)
	require.NoError(t, err)
	assert.Equal(t, "m::A", compiled.Main.QualifiedName(), "first set is used when there is no MAIN")

	a, _ := compiled.Set("A")
	b, _ := compiled.Set("B")
	c, _ := compiled.Set("C")
	assert.Equal(t, []string{"a", "b", "c"}, ruleStarts(a))
	assert.Equal(t, []string{"b", "a", "c"}, ruleStarts(b))
	assert.Equal(t, []string{"c", "a", "b"}, ruleStarts(c))
}

func TestCompile_FlattenIsOrderIndependent(t *testing.T) {
	text := `
name: m
rulesets:
  - name: MAIN
    imports: [X]
    rules: [{type: SEQ, kind: OPERATOR, text: m}]
  - name: X
    imports: [Y]
    rules: [{type: SEQ, kind: OPERATOR, text: x}]
  - name: Y
    rules: [{type: SEQ, kind: OPERATOR, text: "y"}]
`
	doc, err := Parse([]byte(text))
	require.NoError(t, err)
	g := graph{docs: map[string]*Document{"m": doc}}
	noMissing := func(from, ref setKey) { t.Errorf("unexpected missing import %s -> %s", from, ref) }

	x1 := g.flatten(setKey{"m", "X"}, noMissing)
	main := g.flatten(setKey{"m", "MAIN"}, noMissing)
	x2 := g.flatten(setKey{"m", "X"}, noMissing)

	assert.Equal(t, x1, x2)
	assert.Len(t, main.rules, 3)
	assert.Len(t, x1.rules, 2)
	assert.Len(t, doc.RuleSets[0].Rules, 1, "documents are not modified")
}

func TestCompile_Warnings(t *testing.T) {
	src := docs(t, map[string]string{"w": `
name: w
rulesets:
  - name: MAIN
    digit_re: '[0-9'
    imports: [GONE, "other::MAIN"]
    rules:
      - {type: SEQ_REGEXP, kind: OPERATOR, text: '(unclosed'}
      - {type: SPAN, kind: LITERAL1, begin: '"', end: '"', delegate: MISSING}
      - {type: SEQ, kind: OPERATOR, text: ";"}
`})

	compiled, err := Compile("w", src)
	require.NoError(t, err, "broken rules do not fail the mode")

	assert.Equal(t, []string{`"`, ";"}, ruleStarts(compiled.Main), "the bad regexp rule is dropped")
	assert.Nil(t, compiled.Main.Rules()[0].Delegate)
	assert.Nil(t, compiled.Main.Props().DigitRE)

	joined := strings.Join(compiled.Warnings, "\n")
	assert.Contains(t, joined, "digit_re")
	assert.Contains(t, joined, "(unclosed")
	assert.Contains(t, joined, "w::MISSING")
	assert.Contains(t, joined, "w::GONE")
	assert.Contains(t, joined, "load grammar other")
}

func TestCompile_RegexpRules(t *testing.T) {
	src := docs(t, map[string]string{"r": `
name: r
rulesets:
  - name: MAIN
    ignore_case: true
    rules:
      - {type: SEQ_REGEXP, kind: KEYWORD1, text: 'begin|end', hash_char: b}
      - {type: EOL_SPAN_REGEXP, kind: COMMENT1, text: 'rem\b'}
`})

	compiled, err := Compile("r", src)
	require.NoError(t, err)

	rules := compiled.Main.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, 'b', rules[0].HashChar)
	assert.NotNil(t, rules[0].StartRE)

	assert.Equal(t, []string{"KEYWORD1:BEGIN", "NULL: x ", "COMMENT1:REM y"}, lexLine(compiled.Main, "BEGIN x REM y"))
}

func TestCompile_UnknownMode(t *testing.T) {
	_, err := Compile("nope", docs(t, map[string]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load grammar nope")
}

func TestCompile_MalformedDocument(t *testing.T) {
	src := SourceFunc(func(string) (*Document, error) {
		return nil, fmt.Errorf("read: %w", ErrMalformed)
	})
	_, err := Compile("x", src)
	assert.True(t, errors.Is(err, ErrMalformed))
}
