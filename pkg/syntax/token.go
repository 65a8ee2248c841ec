package syntax

// Token is a classified span of one line. Offsets are byte offsets relative
// to the start of the line.
type Token struct {
	// Kind classifies the span.
	Kind Kind

	// Offset is the byte index where the token begins.
	Offset int

	// Length is the length of the token in bytes.
	Length int

	// Rules is the rule set that was active when the token was produced.
	Rules *RuleSet
}

// End returns the exclusive end offset of the token.
func (t Token) End() int {
	return t.Offset + t.Length
}

// Text returns the text of the token within line.
// Returns "" if the token does not fit the line.
func (t Token) Text(line string) string {
	if t.Offset < 0 || t.Length < 0 || t.End() > len(line) {
		return ""
	}
	return line[t.Offset:t.End()]
}

// Handler receives the tokens of a line as the TokenMarker produces them.
// Tokens arrive in offset order and partition the line.
type Handler interface {
	HandleToken(kind Kind, offset, length int, rules *RuleSet)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(kind Kind, offset, length int, rules *RuleSet)

// HandleToken implements Handler.
func (f HandlerFunc) HandleToken(kind Kind, offset, length int, rules *RuleSet) {
	f(kind, offset, length, rules)
}

type discardHandler struct{}

func (discardHandler) HandleToken(Kind, int, int, *RuleSet) {}

// Discard is a Handler that drops every token. It is used to regenerate
// line contexts for lines nobody asked to see.
//
//nolint:gochecknoglobals // Stateless singleton.
var Discard Handler = discardHandler{}

// Collector is a Handler that records tokens, merging adjacent tokens of the
// same kind and rule set.
type Collector struct {
	Tokens []Token
}

// HandleToken implements Handler.
func (c *Collector) HandleToken(kind Kind, offset, length int, rules *RuleSet) {
	if length <= 0 {
		return
	}
	if n := len(c.Tokens); n > 0 {
		last := &c.Tokens[n-1]
		if last.Kind == kind && last.Rules == rules && last.End() == offset {
			last.Length += length
			return
		}
	}
	c.Tokens = append(c.Tokens, Token{Kind: kind, Offset: offset, Length: length, Rules: rules})
}

// Reset clears the collected tokens, keeping the backing array.
func (c *Collector) Reset() {
	c.Tokens = c.Tokens[:0]
}

// ValidateTokens checks that tokens are contiguous, non-overlapping,
// non-empty and cover [0, lineLen).
func ValidateTokens(tokens []Token, lineLen int) bool {
	if len(tokens) == 0 {
		return lineLen == 0
	}
	if tokens[0].Offset != 0 || tokens[len(tokens)-1].End() != lineLen {
		return false
	}
	for i, tok := range tokens {
		if tok.Length <= 0 {
			return false
		}
		if i > 0 && tok.Offset != tokens[i-1].End() {
			return false
		}
	}
	return true
}
