// Package grammar reads declarative language grammars and compiles them into
// immutable syntax.RuleSet graphs.
//
// A grammar is a YAML document with one entry per rule set:
//
//	name: c
//	props:
//	  lineComment: "//"
//	rulesets:
//	  - name: MAIN
//	    highlight_digits: true
//	    escape: "\\"
//	    rules:
//	      - {type: SPAN, kind: COMMENT1, begin: "/*", end: "*/"}
//	      - {type: EOL_SPAN, kind: COMMENT2, begin: "//"}
//	    keywords:
//	      KEYWORD1: [if, else, return]
package grammar

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/tokmark/pkg/syntax"
)

// MainSet is the name of the rule set lines start in.
const MainSet = "MAIN"

// Rule type names accepted in grammar documents.
const (
	TypeSeq            = "SEQ"
	TypeSeqRegexp      = "SEQ_REGEXP"
	TypeSpan           = "SPAN"
	TypeSpanRegexp     = "SPAN_REGEXP"
	TypeEOLSpan        = "EOL_SPAN"
	TypeEOLSpanRegexp  = "EOL_SPAN_REGEXP"
	TypeMarkPrevious   = "MARK_PREVIOUS"
	TypeMarkFollowing  = "MARK_FOLLOWING"
	qualifiedSeparator = "::"
)

// ErrMalformed wraps every structural problem found while parsing a document.
var ErrMalformed = errors.New("malformed grammar")

// Document is the parsed form of one grammar file. Documents are not
// modified after Parse returns.
type Document struct {
	// Name is the mode name.
	Name string `yaml:"name"`

	// Props are free-form mode properties such as lineComment.
	Props map[string]string `yaml:"props"`

	// RuleSets lists the rule sets; the one named MAIN is the default.
	RuleSets []RuleSetDef `yaml:"rulesets"`
}

// RuleSetDef declares one rule set.
type RuleSetDef struct {
	Name            string              `yaml:"name"`
	Default         string              `yaml:"default"`
	IgnoreCase      bool                `yaml:"ignore_case"`
	HighlightDigits bool                `yaml:"highlight_digits"`
	DigitRE         string              `yaml:"digit_re"`
	NoWordSep       string              `yaml:"no_word_sep"`
	Escape          string              `yaml:"escape"`
	TerminateChar   int                 `yaml:"terminate_char"`
	Imports         []string            `yaml:"imports"`
	Rules           []RuleDef           `yaml:"rules"`
	Keywords        map[string][]string `yaml:"keywords"`
}

// RuleDef declares one rule.
type RuleDef struct {
	Type            string `yaml:"type"`
	Kind            string `yaml:"kind"`
	Text            string `yaml:"text"`
	Begin           string `yaml:"begin"`
	End             string `yaml:"end"`
	Delegate        string `yaml:"delegate"`
	HashChar        string `yaml:"hash_char"`
	NoLineBreak     bool   `yaml:"no_line_break"`
	NoWordBreak     bool   `yaml:"no_word_break"`
	NoEscape        bool   `yaml:"no_escape"`
	ExcludeMatch    bool   `yaml:"exclude_match"`
	AtLineStart     bool   `yaml:"at_line_start"`
	AtWhitespaceEnd bool   `yaml:"at_whitespace_end"`
	AtWordStart     bool   `yaml:"at_word_start"`
}

// start returns the start sequence or pattern of the rule.
func (r RuleDef) start() string {
	if r.Begin != "" {
		return r.Begin
	}
	return r.Text
}

// isRegexp reports whether the start is a regular expression.
func (r RuleDef) isRegexp() bool {
	return strings.HasSuffix(r.Type, "_REGEXP")
}

// Parse decodes and validates a grammar document. Unknown fields, rule types
// and token kinds are errors; regular expressions are only checked at
// compile time.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	doc := &Document{}
	if err := dec.Decode(doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: missing mode name", ErrMalformed)
	}
	if len(d.RuleSets) == 0 {
		return fmt.Errorf("%w: %s: no rule sets", ErrMalformed, d.Name)
	}

	seen := make(map[string]bool, len(d.RuleSets))
	for i := range d.RuleSets {
		set := &d.RuleSets[i]
		if set.Name == "" {
			set.Name = MainSet
		}
		if seen[set.Name] {
			return fmt.Errorf("%w: %s: duplicate rule set %q", ErrMalformed, d.Name, set.Name)
		}
		seen[set.Name] = true

		if err := set.validate(); err != nil {
			return fmt.Errorf("%w: %s::%s: %w", ErrMalformed, d.Name, set.Name, err)
		}
	}
	return nil
}

func (s *RuleSetDef) validate() error {
	if s.Default != "" {
		if _, err := syntax.ParseKind(s.Default); err != nil {
			return fmt.Errorf("default: %w", err)
		}
	}
	if s.TerminateChar < 0 {
		return fmt.Errorf("terminate_char must not be negative, got %d", s.TerminateChar)
	}
	for kindName := range s.Keywords {
		if _, err := syntax.ParseKind(kindName); err != nil {
			return fmt.Errorf("keywords: %w", err)
		}
	}
	for i, rule := range s.Rules {
		if err := rule.validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

func (r RuleDef) validate() error {
	switch r.Type {
	case TypeSeq, TypeSeqRegexp, TypeEOLSpan, TypeEOLSpanRegexp, TypeMarkPrevious, TypeMarkFollowing:
	case TypeSpan, TypeSpanRegexp:
		if r.End == "" {
			return fmt.Errorf("%s without end", r.Type)
		}
	default:
		return fmt.Errorf("unknown rule type %q", r.Type)
	}
	if r.start() == "" {
		return fmt.Errorf("%s without text", r.Type)
	}
	if r.Kind != "" {
		if _, err := syntax.ParseKind(r.Kind); err != nil {
			return err
		}
	}
	if n := len([]rune(r.HashChar)); n > 1 {
		return fmt.Errorf("hash_char must be a single character, got %q", r.HashChar)
	}
	return nil
}

// Set returns the rule set definition called name.
func (d *Document) Set(name string) (*RuleSetDef, bool) {
	for i := range d.RuleSets {
		if d.RuleSets[i].Name == name {
			return &d.RuleSets[i], true
		}
	}
	return nil, false
}

// splitRef splits a rule set reference into mode and set name. A bare name
// refers to a set of fromMode.
func splitRef(fromMode, ref string) (string, string) {
	if mode, set, ok := strings.Cut(ref, qualifiedSeparator); ok {
		if mode == "" {
			mode = fromMode
		}
		if set == "" {
			set = MainSet
		}
		return mode, set
	}
	return fromMode, ref
}
