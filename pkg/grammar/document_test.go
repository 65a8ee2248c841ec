package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	doc, err := Parse([]byte(`
name: demo
props:
  lineComment: "#"
rulesets:
  - rules:
      - {type: EOL_SPAN, kind: COMMENT1, begin: "#"}
      - {type: SPAN, kind: literal1, begin: '"', end: '"', delegate: STR}
    keywords:
      KEYWORD1: [if, else]
  - name: STR
    default: LITERAL1
`))
	require.NoError(t, err)

	assert.Equal(t, "demo", doc.Name)
	assert.Equal(t, "#", doc.Props["lineComment"])
	require.Len(t, doc.RuleSets, 2)

	main, ok := doc.Set(MainSet)
	require.True(t, ok, "an unnamed set is MAIN")
	assert.Len(t, main.Rules, 2)
	assert.Equal(t, []string{"if", "else"}, main.Keywords["KEYWORD1"])

	_, ok = doc.Set("NOPE")
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "empty", doc: "", want: "empty document"},
		{name: "missing name", doc: "rulesets: [{name: MAIN}]", want: "missing mode name"},
		{name: "no sets", doc: "name: x", want: "no rule sets"},
		{name: "unknown field", doc: "name: x\ncolour: red\nrulesets: [{name: MAIN}]", want: "colour"},
		{name: "duplicate set", doc: "name: x\nrulesets: [{name: A}, {name: A}]", want: "duplicate rule set"},
		{name: "unknown type", doc: "name: x\nrulesets: [{rules: [{type: BLOB, text: a}]}]", want: "unknown rule type"},
		{name: "span without end", doc: "name: x\nrulesets: [{rules: [{type: SPAN, begin: a}]}]", want: "without end"},
		{name: "rule without text", doc: "name: x\nrulesets: [{rules: [{type: SEQ, kind: OPERATOR}]}]", want: "without text"},
		{name: "unknown kind", doc: "name: x\nrulesets: [{rules: [{type: SEQ, text: a, kind: SPARKLY}]}]", want: "unknown token kind"},
		{name: "unknown keyword kind", doc: "name: x\nrulesets: [{keywords: {NOPE: [a]}}]", want: "keywords"},
		{name: "bad default", doc: "name: x\nrulesets: [{default: NOPE}]", want: "default"},
		{name: "long hash char", doc: "name: x\nrulesets: [{rules: [{type: SEQ_REGEXP, text: 'a+', hash_char: ab}]}]", want: "single character"},
		{name: "negative terminate", doc: "name: x\nrulesets: [{terminate_char: -1}]", want: "terminate_char"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			require.ErrorIs(t, err, ErrMalformed)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSplitRef(t *testing.T) {
	tests := []struct {
		ref      string
		wantMode string
		wantSet  string
	}{
		{ref: "CPP", wantMode: "c", wantSet: "CPP"},
		{ref: "java::MAIN", wantMode: "java", wantSet: "MAIN"},
		{ref: "::DOC", wantMode: "c", wantSet: "DOC"},
		{ref: "html::", wantMode: "html", wantSet: "MAIN"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			mode, set := splitRef("c", tt.ref)
			assert.Equal(t, tt.wantMode, mode)
			assert.Equal(t, tt.wantSet, set)
		})
	}
}
