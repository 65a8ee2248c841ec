package syntax

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// RuleSetProps holds the set-wide flags of a RuleSet.
type RuleSetProps struct {
	// Default is the kind of text no rule or keyword claims.
	Default Kind

	// IgnoreCase makes rule starts, span ends and keywords case-insensitive.
	IgnoreCase bool

	// HighlightDigits tags numeric words as Digit.
	HighlightDigits bool

	// DigitRE, when set, decides which words are numeric. It must match
	// the whole word.
	DigitRE *regexp.Regexp

	// NoWordSep lists non-alphanumeric characters that are part of words.
	NoWordSep string

	// Escape is the escape sequence; the character after it is never
	// matched by a rule.
	Escape string

	// TerminateChar stops rule matching at this byte offset of the line;
	// the rest of the line gets the default kind. Zero disables the limit.
	TerminateChar int
}

// RuleSet is a named, ordered table of rules for one lexical context of a
// mode. A RuleSet is allocated with NewRuleSet, filled exactly once with
// Define, and is read-only afterwards, so it may be shared between
// goroutines.
type RuleSet struct {
	modeName string
	name     string
	props    RuleSetProps
	rules    []*Rule
	keywords *KeywordMap
	imports  []string

	dispatch map[rune][]*Rule
	wildcard []*Rule
	defined  bool
}

// NewRuleSet allocates an empty rule set. Allocation is split from Define so
// that rules can refer to sets (including their own) before those are
// filled.
func NewRuleSet(modeName, name string) *RuleSet {
	return &RuleSet{modeName: modeName, name: name}
}

// Define fills the rule set. It panics if called twice.
func (rs *RuleSet) Define(props RuleSetProps, rules []*Rule, keywords *KeywordMap, imports []string) {
	if rs.defined {
		panic("syntax: rule set " + rs.QualifiedName() + " defined twice")
	}
	if keywords == nil {
		keywords = NewKeywordMap(props.IgnoreCase)
	}
	rs.props = props
	rs.rules = slices.Clone(rules)
	rs.keywords = keywords
	rs.imports = slices.Clone(imports)
	rs.buildDispatch()
	rs.defined = true
}

// buildDispatch indexes rules by first character. Every keyed bucket gets
// the wildcard rules appended so that lookup is a single map access.
func (rs *RuleSet) buildDispatch() {
	keyed := make(map[rune][]*Rule)
	var order []rune
	for _, rule := range rs.rules {
		key, ok := rule.dispatchKey(rs.props.IgnoreCase)
		if !ok {
			rs.wildcard = append(rs.wildcard, rule)
			continue
		}
		if _, seen := keyed[key]; !seen {
			order = append(order, key)
		}
		keyed[key] = append(keyed[key], rule)
	}

	rs.dispatch = make(map[rune][]*Rule, len(keyed))
	for _, key := range order {
		bucket := keyed[key]
		merged := make([]*Rule, 0, len(bucket)+len(rs.wildcard))
		merged = append(merged, bucket...)
		merged = append(merged, rs.wildcard...)
		rs.dispatch[key] = merged
	}
}

// RulesFor returns the candidate rules for text starting with ch: the rules
// keyed on ch followed by the wildcard rules. The slice must not be modified.
func (rs *RuleSet) RulesFor(ch rune) []*Rule {
	if rs.props.IgnoreCase {
		ch = unicode.ToLower(ch)
	}
	if bucket, ok := rs.dispatch[ch]; ok {
		return bucket
	}
	return rs.wildcard
}

// Name returns the set name (e.g. "MAIN").
func (rs *RuleSet) Name() string { return rs.name }

// ModeName returns the name of the mode the set belongs to.
func (rs *RuleSet) ModeName() string { return rs.modeName }

// QualifiedName returns "mode::name".
func (rs *RuleSet) QualifiedName() string {
	return rs.modeName + "::" + rs.name
}

// Props returns the set-wide flags.
func (rs *RuleSet) Props() RuleSetProps { return rs.props }

// Default returns the default token kind.
func (rs *RuleSet) Default() Kind { return rs.props.Default }

// IgnoreCase reports whether matching is case-insensitive.
func (rs *RuleSet) IgnoreCase() bool { return rs.props.IgnoreCase }

// Keywords returns the keyword map.
func (rs *RuleSet) Keywords() *KeywordMap { return rs.keywords }

// Rules returns a copy of the rules in dispatch order.
func (rs *RuleSet) Rules() []*Rule { return slices.Clone(rs.rules) }

// RuleCount returns the number of rules, including imported ones.
func (rs *RuleSet) RuleCount() int { return len(rs.rules) }

// Imports returns the qualified names of the sets this set imported.
func (rs *RuleSet) Imports() []string { return slices.Clone(rs.imports) }

// IsDefined reports whether Define has been called.
func (rs *RuleSet) IsDefined() bool { return rs.defined }

// IsWordChar reports whether r is part of a word in this set.
func (rs *RuleSet) IsWordChar(r rune) bool {
	return isAlphaNum(r) ||
		strings.ContainsRune(rs.props.NoWordSep, r) ||
		strings.ContainsRune(rs.keywords.ExtraChars(), r)
}

// classifyWord returns the kind of a complete word, if it is a keyword or a
// highlighted number.
func (rs *RuleSet) classifyWord(word string) (Kind, bool) {
	if kind, ok := rs.keywords.Lookup(word); ok {
		return kind, true
	}
	if !rs.props.HighlightDigits || word == "" {
		return Null, false
	}
	if rs.props.DigitRE != nil {
		if loc := rs.props.DigitRE.FindStringIndex(word); loc != nil && loc[0] == 0 && loc[1] == len(word) {
			return Digit, true
		}
		return Null, false
	}
	if word[0] >= '0' && word[0] <= '9' {
		return Digit, true
	}
	return Null, false
}

func isAlphaNum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// standardRuleSets are the rule-less sets used as the body of spans that have
// no delegate: the whole body is one run of the span's kind.
//
//nolint:gochecknoglobals // Immutable after package initialisation.
var standardRuleSets = func() [kindCount]*RuleSet {
	var sets [kindCount]*RuleSet
	for kind := range kindCount {
		rs := NewRuleSet("", kind.String())
		rs.Define(RuleSetProps{Default: kind}, nil, nil, nil)
		sets[kind] = rs
	}
	return sets
}()

// StandardRuleSet returns the shared rule-less set whose default kind is kind.
func StandardRuleSet(kind Kind) *RuleSet {
	if !kind.IsValid() {
		kind = Null
	}
	return standardRuleSets[kind]
}

// PlainRuleSet returns a fresh rule-less MAIN set for modeName. Modes whose
// grammar cannot be loaded use it so that text still renders.
func PlainRuleSet(modeName string) *RuleSet {
	rs := NewRuleSet(modeName, "MAIN")
	rs.Define(RuleSetProps{Default: Null}, nil, nil, nil)
	return rs
}
