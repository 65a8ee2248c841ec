package syntax

import (
	"unicode"
	"unicode/utf8"
)

// TokenMarker lexes one line at a time. It holds no per-document state and
// may be shared between goroutines.
type TokenMarker struct {
	main *RuleSet
}

// NewTokenMarker creates a marker whose lines start in main unless a
// previous line context says otherwise.
func NewTokenMarker(main *RuleSet) *TokenMarker {
	return &TokenMarker{main: main}
}

// MainRuleSet returns the rule set lines start in.
func (m *TokenMarker) MainRuleSet() *RuleSet {
	return m.main
}

// MarkTokens lexes line starting from prev (nil for the first line), passes
// every token to handler and returns the context at the end of the line.
// The tokens partition [0, len(line)). When the resulting stack is equal to
// prev, prev itself is returned.
func (m *TokenMarker) MarkTokens(prev *LineContext, handler Handler, line string) *LineContext {
	ctx := prev
	if ctx == nil {
		ctx = NewLineContext(m.main)
	}

	s := &lineScanner{
		line:      line,
		handler:   handler,
		ctx:       ctx,
		wordStart: -1,
	}
	s.scan()

	result := s.closeAtEOL()
	if prev != nil && result.Equal(prev) {
		return prev
	}
	return result
}

// lineScanner is the state of one MarkTokens call.
type lineScanner struct {
	line    string
	handler Handler
	ctx     *LineContext

	pos        int
	lastOffset int // start of text not yet handed to the handler
	wordStart  int // start of the word being scanned, -1 if none
	escaped    bool
}

func (s *lineScanner) scan() {
	for s.pos < len(s.line) {
		rules := s.ctx.rules
		if limit := rules.props.TerminateChar; limit > 0 && s.pos >= limit {
			s.wordStart = -1
			break
		}

		ch, size := utf8.DecodeRuneInString(s.line[s.pos:])

		if s.escaped {
			s.escaped = false
			s.flushWord()
			s.pos += size
			continue
		}

		if esc, ignoreCase := s.escape(); hasPrefixAt(s.line, s.pos, esc, ignoreCase) {
			s.flushWord()
			s.pos += len(esc)
			s.escaped = true
			continue
		}

		if s.ctx.rule != nil {
			if s.ctx.rule.NoWordBreak && unicode.IsSpace(ch) {
				s.flushWord()
				s.emitPending(s.pos)
				s.ctx = s.ctx.parent
				continue
			}
			if s.matchSpanEnd() {
				continue
			}
		}

		if s.tryRules(ch) {
			continue
		}

		if rules.IsWordChar(ch) {
			if s.wordStart < 0 {
				s.wordStart = s.pos
			}
		} else {
			s.flushWord()
		}
		s.pos += size
	}

	s.flushWord()
	s.emitPending(len(s.line))
}

// escape returns the escape sequence in effect. Inside a span it is the
// escape of the set that defined the span, unless the span opts out.
func (s *lineScanner) escape() (string, bool) {
	rules := s.ctx.rules
	if s.ctx.rule != nil && s.ctx.parent != nil {
		if s.ctx.rule.NoEscape {
			return "", false
		}
		if outer := s.ctx.parent.rules; outer.props.Escape != "" {
			return outer.props.Escape, outer.props.IgnoreCase
		}
	}
	return rules.props.Escape, rules.props.IgnoreCase
}

func (s *lineScanner) matchSpanEnd() bool {
	rule := s.ctx.rule
	outer := s.ctx.parent.rules
	if !hasPrefixAt(s.line, s.pos, rule.End, outer.props.IgnoreCase) {
		return false
	}

	s.flushWord()
	s.emitPending(s.pos)

	kind := rule.Kind
	if rule.ExcludeMatch {
		kind = outer.Default()
	}
	s.emit(kind, s.pos, len(rule.End), outer)
	s.advance(len(rule.End))
	s.ctx = s.ctx.parent
	return true
}

func (s *lineScanner) tryRules(ch rune) bool {
	for _, rule := range s.ctx.rules.RulesFor(ch) {
		if n, ok := s.matchStart(rule); ok {
			s.apply(rule, n)
			return true
		}
	}
	return false
}

// matchStart returns the length of the rule's start at the scan position.
func (s *lineScanner) matchStart(rule *Rule) (int, bool) {
	if rule.AtLineStart && s.pos != 0 {
		return 0, false
	}
	if rule.AtWhitespaceEnd && !s.onlyWhitespaceBefore() {
		return 0, false
	}
	if rule.AtWordStart && s.pos > 0 {
		prev, _ := utf8.DecodeLastRuneInString(s.line[:s.pos])
		if s.ctx.rules.IsWordChar(prev) {
			return 0, false
		}
	}

	if rule.StartRE != nil {
		loc := rule.StartRE.FindStringIndex(s.line[s.pos:])
		if loc == nil || loc[0] != 0 || loc[1] == 0 {
			return 0, false
		}
		return loc[1], true
	}
	if hasPrefixAt(s.line, s.pos, rule.Start, s.ctx.rules.props.IgnoreCase) {
		return len(rule.Start), true
	}
	return 0, false
}

func (s *lineScanner) onlyWhitespaceBefore() bool {
	for _, r := range s.line[:s.pos] {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func (s *lineScanner) apply(rule *Rule, n int) {
	rules := s.ctx.rules
	matchKind := rule.Kind
	if rule.ExcludeMatch {
		matchKind = rules.Default()
	}

	switch rule.Type {
	case RuleSeq:
		s.flushWord()
		s.emitPending(s.pos)
		s.emit(rule.Kind, s.pos, n, rules)
		s.advance(n)
		if rule.Delegate != nil {
			s.ctx = &LineContext{parent: s.ctx.parent, rule: s.ctx.rule, rules: rule.Delegate}
		}

	case RuleSpan:
		s.flushWord()
		s.emitPending(s.pos)
		s.emit(matchKind, s.pos, n, rules)
		s.advance(n)
		s.ctx = &LineContext{parent: s.ctx, rule: rule, rules: rule.body()}

	case RuleEOLSpan:
		s.flushWord()
		s.emitPending(s.pos)
		s.emit(matchKind, s.pos, n, rules)
		s.advance(n)
		if rule.Delegate == nil {
			s.emit(rule.Kind, s.pos, len(s.line)-s.pos, rules)
			s.advance(len(s.line) - s.pos)
			return
		}
		s.ctx = &LineContext{parent: s.ctx, rule: rule, rules: rule.Delegate}

	case RuleMarkPrevious:
		start := s.wordStart
		if start < 0 {
			start = s.pos
		}
		s.wordStart = -1
		s.emitPending(start)
		s.emit(rule.Kind, start, s.pos-start, rules)
		s.emit(matchKind, s.pos, n, rules)
		s.advance(n)

	case RuleMarkFollowing:
		s.flushWord()
		s.emitPending(s.pos)
		end := s.pos + n
		for end < len(s.line) {
			r, size := utf8.DecodeRuneInString(s.line[end:])
			if !rules.IsWordChar(r) {
				break
			}
			end += size
		}
		s.emit(matchKind, s.pos, n, rules)
		s.emit(rule.Kind, s.pos+n, end-s.pos-n, rules)
		s.advance(end - s.pos)
	}
}

// flushWord classifies the word ending at the scan position.
func (s *lineScanner) flushWord() {
	if s.wordStart < 0 {
		return
	}
	start := s.wordStart
	s.wordStart = -1

	rules := s.ctx.rules
	kind, ok := rules.classifyWord(s.line[start:s.pos])
	if !ok {
		return
	}
	s.emitPending(start)
	s.emit(kind, start, s.pos-start, rules)
	s.lastOffset = s.pos
}

// emitPending hands [lastOffset, upTo) to the handler as default text.
func (s *lineScanner) emitPending(upTo int) {
	if upTo > s.lastOffset {
		rules := s.ctx.rules
		s.handler.HandleToken(rules.Default(), s.lastOffset, upTo-s.lastOffset, rules)
		s.lastOffset = upTo
	}
}

func (s *lineScanner) emit(kind Kind, offset, length int, rules *RuleSet) {
	if length > 0 {
		s.handler.HandleToken(kind, offset, length, rules)
	}
}

func (s *lineScanner) advance(n int) {
	s.pos += n
	s.lastOffset = s.pos
}

// closeAtEOL pops every context that cannot continue onto the next line,
// together with anything nested inside it.
func (s *lineScanner) closeAtEOL() *LineContext {
	result := s.ctx
	for ctx := s.ctx; ctx != nil; ctx = ctx.parent {
		if ctx.rule != nil && ctx.rule.closesAtEOL() {
			result = ctx.parent
		}
	}
	return result
}
