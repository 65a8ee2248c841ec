package configloader

import (
	"strings"

	"github.com/yaklabco/tokmark/pkg/syntax"
)

// kindAliases maps friendly style keys to canonical token kind names, so a
// config can say "comment" or "string" instead of COMMENT1 or LITERAL1.
//
//nolint:gochecknoglobals // Read-only lookup table.
var kindAliases = map[string]string{
	"text":     "NULL",
	"plain":    "NULL",
	"comment":  "COMMENT1",
	"doc":      "COMMENT3",
	"string":   "LITERAL1",
	"char":     "LITERAL2",
	"keyword":  "KEYWORD1",
	"type":     "KEYWORD3",
	"builtin":  "KEYWORD2",
	"number":   "DIGIT",
	"function": "FUNCTION",
	"operator": "OPERATOR",
	"label":    "LABEL",
	"markup":   "MARKUP",
	"invalid":  "INVALID",
	"error":    "INVALID",
}

// ResolveKindKey converts a style key (a kind name or alias, any case) to
// its canonical kind name. The bool is false when the key names no kind.
func ResolveKindKey(key string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(key))
	if canonical, ok := kindAliases[normalized]; ok {
		return canonical, true
	}
	kind, err := syntax.ParseKind(normalized)
	if err != nil {
		return "", false
	}
	return kind.String(), true
}

// KindAliases returns a copy of the alias table.
func KindAliases() map[string]string {
	out := make(map[string]string, len(kindAliases))
	for alias, kind := range kindAliases {
		out[alias] = kind
	}
	return out
}
