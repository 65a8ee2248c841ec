package syntax

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RuleType selects how a Rule consumes text once its start matches.
type RuleType uint8

const (
	// RuleSeq matches a literal or regexp sequence on one line.
	RuleSeq RuleType = iota
	// RuleSpan matches a start sequence and stays open until its end
	// sequence, possibly on a later line.
	RuleSpan
	// RuleEOLSpan matches a start sequence and runs to the end of the line.
	RuleEOLSpan
	// RuleMarkPrevious retags the word immediately before the match.
	RuleMarkPrevious
	// RuleMarkFollowing tags the match together with the word after it.
	RuleMarkFollowing
)

// String returns the grammar name of the rule type.
func (t RuleType) String() string {
	switch t {
	case RuleSeq:
		return "SEQ"
	case RuleSpan:
		return "SPAN"
	case RuleEOLSpan:
		return "EOL_SPAN"
	case RuleMarkPrevious:
		return "MARK_PREVIOUS"
	case RuleMarkFollowing:
		return "MARK_FOLLOWING"
	default:
		return "UNKNOWN"
	}
}

// Rule is a single match pattern. Rules are built by the grammar compiler
// and must not be modified once handed to a RuleSet.
type Rule struct {
	// Type selects the matching behaviour.
	Type RuleType

	// Kind is the token kind given to the matched text.
	Kind Kind

	// Start is the literal start sequence. Ignored when StartRE is set.
	Start string

	// StartRE, when set, matches the start of the rule. It must be anchored
	// with ^ so that it only matches at the scan position.
	StartRE *regexp.Regexp

	// HashChar is the dispatch key of a regexp rule. Zero puts the rule in
	// the wildcard bucket.
	HashChar rune

	// End is the literal end sequence of a RuleSpan.
	End string

	// Delegate is the rule set that lexes the inside of a span, or that
	// replaces the active set after a RuleSeq. Nil means the span body is a
	// single run of Kind.
	Delegate *RuleSet

	// NoLineBreak closes the span at end of line if End was not found.
	NoLineBreak bool

	// NoWordBreak closes the span at the first whitespace character.
	NoWordBreak bool

	// NoEscape disables the enclosing set's escape sequence inside the span.
	NoEscape bool

	// ExcludeMatch gives the delimiters the surrounding default kind
	// instead of Kind.
	ExcludeMatch bool

	// AtLineStart only matches at offset 0.
	AtLineStart bool

	// AtWhitespaceEnd only matches when everything before it is whitespace.
	AtWhitespaceEnd bool

	// AtWordStart only matches when the previous character is not a word
	// character.
	AtWordStart bool
}

// dispatchKey returns the first-character key of the rule. The second result
// is false when the rule belongs in the wildcard bucket.
func (r *Rule) dispatchKey(ignoreCase bool) (rune, bool) {
	var key rune
	switch {
	case r.StartRE != nil:
		if r.HashChar == 0 {
			return 0, false
		}
		key = r.HashChar
	case r.Start != "":
		key, _ = utf8.DecodeRuneInString(r.Start)
	default:
		return 0, false
	}
	if ignoreCase {
		key = unicode.ToLower(key)
	}
	return key, true
}

// body returns the rule set lexing the inside of a span.
func (r *Rule) body() *RuleSet {
	if r.Delegate != nil {
		return r.Delegate
	}
	return StandardRuleSet(r.Kind)
}

// closesAtEOL reports whether a context opened by r cannot outlive its line.
func (r *Rule) closesAtEOL() bool {
	return r.Type == RuleEOLSpan || r.NoLineBreak
}

// hasPrefixAt reports whether line[pos:] starts with seq.
func hasPrefixAt(line string, pos int, seq string, ignoreCase bool) bool {
	if seq == "" || pos+len(seq) > len(line) {
		return false
	}
	candidate := line[pos : pos+len(seq)]
	if ignoreCase {
		return strings.EqualFold(candidate, seq)
	}
	return candidate == seq
}
