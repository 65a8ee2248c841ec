// Package syntax implements the rule-driven, line-at-a-time lexer used for
// syntax highlighting: token kinds, keyword maps, rules, rule sets, the line
// context stack carried between lines, and the TokenMarker itself.
package syntax

import (
	"fmt"
	"strings"
)

// Kind classifies a token for presentation.
type Kind uint8

// Token kinds. The set is closed; styling is looked up per (language, Kind).
const (
	Null Kind = iota
	Comment1
	Comment2
	Comment3
	Comment4
	Literal1
	Literal2
	Literal3
	Literal4
	Label
	Keyword1
	Keyword2
	Keyword3
	Keyword4
	Function
	Markup
	Operator
	Digit
	Invalid

	kindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = [kindCount]string{
	Null:     "NULL",
	Comment1: "COMMENT1",
	Comment2: "COMMENT2",
	Comment3: "COMMENT3",
	Comment4: "COMMENT4",
	Literal1: "LITERAL1",
	Literal2: "LITERAL2",
	Literal3: "LITERAL3",
	Literal4: "LITERAL4",
	Label:    "LABEL",
	Keyword1: "KEYWORD1",
	Keyword2: "KEYWORD2",
	Keyword3: "KEYWORD3",
	Keyword4: "KEYWORD4",
	Function: "FUNCTION",
	Markup:   "MARKUP",
	Operator: "OPERATOR",
	Digit:    "DIGIT",
	Invalid:  "INVALID",
}

// String returns the grammar name of the kind (e.g. "KEYWORD1").
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsValid reports whether k is one of the defined kinds.
func (k Kind) IsValid() bool {
	return k < kindCount
}

// IsComment reports whether k is one of the comment kinds.
func (k Kind) IsComment() bool {
	return k >= Comment1 && k <= Comment4
}

// IsLiteral reports whether k is one of the literal kinds.
func (k Kind) IsLiteral() bool {
	return k >= Literal1 && k <= Literal4
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("invalid token kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind converts a grammar kind name to a Kind. Matching is case-insensitive.
func ParseKind(name string) (Kind, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for kind, kindName := range kindNames {
		if kindName == upper {
			return Kind(kind), nil
		}
	}
	return Null, fmt.Errorf("unknown token kind %q", name)
}

// Kinds returns all defined kinds in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Null; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
