package syntax

import "strings"

// LineContext is the stack of open constructs at the end of a line. Each
// entry records the active rule set and the span rule that opened it.
// Contexts are never mutated once returned by the TokenMarker.
type LineContext struct {
	parent *LineContext
	rule   *Rule
	rules  *RuleSet
}

// NewLineContext returns a top-level context with rules active.
func NewLineContext(rules *RuleSet) *LineContext {
	return &LineContext{rules: rules}
}

// Parent returns the enclosing context, or nil at top level.
func (c *LineContext) Parent() *LineContext { return c.parent }

// Rule returns the span rule that opened this context, or nil at top level.
func (c *LineContext) Rule() *Rule { return c.rule }

// Rules returns the active rule set.
func (c *LineContext) Rules() *RuleSet { return c.rules }

// Depth returns the number of entries on the stack.
func (c *LineContext) Depth() int {
	depth := 0
	for ; c != nil; c = c.parent {
		depth++
	}
	return depth
}

// InSpan reports whether a span is open.
func (c *LineContext) InSpan() bool {
	return c != nil && c.rule != nil
}

// Equal reports whether c and other describe the same stack.
func (c *LineContext) Equal(other *LineContext) bool {
	for c != other {
		if c == nil || other == nil {
			return false
		}
		if c.rules != other.rules || c.rule != other.rule {
			return false
		}
		c, other = c.parent, other.parent
	}
	return true
}

// String renders the stack from the outermost set inwards, for debugging.
func (c *LineContext) String() string {
	if c == nil {
		return "<nil>"
	}
	var names []string
	for ctx := c; ctx != nil; ctx = ctx.parent {
		names = append(names, ctx.rules.QualifiedName())
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, " > ")
}
