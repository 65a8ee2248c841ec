package grammar

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"unicode/utf8"

	"github.com/yaklabco/tokmark/pkg/syntax"
)

// ErrUnknownRuleSet is reported when a delegate or import names a rule set
// that does not exist.
var ErrUnknownRuleSet = errors.New("unknown rule set")

// Source supplies parsed grammar documents by mode name.
type Source interface {
	Document(mode string) (*Document, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(mode string) (*Document, error)

// Document implements Source.
func (f SourceFunc) Document(mode string) (*Document, error) {
	return f(mode)
}

// Compiled is the immutable rule set graph of one mode.
type Compiled struct {
	// Mode is the mode name.
	Mode string

	// Props are the mode properties from the grammar.
	Props map[string]string

	// Main is the rule set lines start in.
	Main *syntax.RuleSet

	// Sets holds every compiled set by qualified name, including sets of
	// other modes reached through delegates.
	Sets map[string]*syntax.RuleSet

	// Warnings lists rules and references that were dropped.
	Warnings []string
}

// Set returns a compiled set of the mode by bare or qualified name.
func (c *Compiled) Set(name string) (*syntax.RuleSet, bool) {
	mode, set := splitRef(c.Mode, name)
	rs, ok := c.Sets[setKey{mode: mode, set: set}.String()]
	return rs, ok
}

// compiler holds the state of one Compile call.
type compiler struct {
	src      Source
	graph    graph
	shells   map[setKey]*syntax.RuleSet
	order    []setKey
	warnings []string
}

// Compile builds the rule sets of mode. Every set reachable from the mode
// through delegates is compiled into the result, so the returned graph does
// not share RuleSets with other modes. Invalid regular expressions and
// dangling references are dropped with a warning; an error is only returned
// when the mode's own document cannot be obtained.
func Compile(mode string, src Source) (*Compiled, error) {
	c := &compiler{
		src:    src,
		graph:  graph{docs: make(map[string]*Document)},
		shells: make(map[setKey]*syntax.RuleSet),
	}

	doc, err := src.Document(mode)
	if err != nil {
		return nil, fmt.Errorf("load grammar %s: %w", mode, err)
	}
	c.graph.docs[mode] = doc

	for _, set := range doc.RuleSets {
		c.reach(setKey{mode: mode, set: set.Name})
	}

	// Allocate first so rules can point at any set, including their own.
	for _, key := range c.order {
		c.shells[key] = syntax.NewRuleSet(key.mode, key.set)
	}
	for _, key := range c.order {
		c.define(key)
	}

	result := &Compiled{
		Mode:     mode,
		Props:    maps.Clone(doc.Props),
		Sets:     make(map[string]*syntax.RuleSet, len(c.shells)),
		Warnings: c.warnings,
	}
	for key, rs := range c.shells {
		result.Sets[key.String()] = rs
	}
	if result.Props == nil {
		result.Props = make(map[string]string)
	}

	mainKey := setKey{mode: mode, set: MainSet}
	if _, ok := c.shells[mainKey]; !ok {
		mainKey = setKey{mode: mode, set: doc.RuleSets[0].Name}
	}
	result.Main = c.shells[mainKey]

	return result, nil
}

// document returns the document of mode, loading it on first use.
func (c *compiler) document(mode string) (*Document, bool) {
	if doc, ok := c.graph.docs[mode]; ok {
		return doc, doc != nil
	}
	doc, err := c.src.Document(mode)
	if err != nil {
		c.warnf("load grammar %s: %v", mode, err)
		c.graph.docs[mode] = nil
		return nil, false
	}
	c.graph.docs[mode] = doc
	return doc, true
}

// reach records key and everything its rules may delegate to or import.
func (c *compiler) reach(key setKey) {
	if slices.Contains(c.order, key) {
		return
	}
	doc, ok := c.document(key.mode)
	if !ok {
		return
	}
	def, ok := doc.Set(key.set)
	if !ok {
		return
	}
	c.order = append(c.order, key)

	for _, rule := range def.Rules {
		if rule.Delegate != "" {
			mode, set := splitRef(key.mode, rule.Delegate)
			c.reach(setKey{mode: mode, set: set})
		}
	}
	for _, ref := range def.Imports {
		mode, set := splitRef(key.mode, ref)
		// Imported rules keep their delegates, so the imported set's own
		// references must be reachable too.
		c.reach(setKey{mode: mode, set: set})
	}
}

func (c *compiler) define(key setKey) {
	def, _ := c.graph.lookup(key)
	flat := c.graph.flatten(key, func(from, ref setKey) {
		c.warnf("%s: import %s: %v", from, ref, ErrUnknownRuleSet)
	})

	props := syntax.RuleSetProps{
		IgnoreCase:      def.IgnoreCase,
		HighlightDigits: def.HighlightDigits,
		NoWordSep:       def.NoWordSep,
		Escape:          def.Escape,
		TerminateChar:   def.TerminateChar,
	}
	if def.Default != "" {
		props.Default, _ = syntax.ParseKind(def.Default)
	}
	if def.DigitRE != "" {
		re, err := compilePattern("^(?:"+def.DigitRE+")$", def.IgnoreCase)
		if err != nil {
			c.warnf("%s: digit_re: %v", key, err)
		} else {
			props.DigitRE = re
		}
	}

	rules := make([]*syntax.Rule, 0, len(flat.rules))
	for i, fr := range flat.rules {
		rule, err := c.rule(fr, def.IgnoreCase)
		if err != nil {
			c.warnf("%s: rule %d (%s %q) dropped: %v", key, i, fr.def.Type, fr.def.start(), err)
			continue
		}
		rules = append(rules, rule)
	}

	keywords := syntax.NewKeywordMap(def.IgnoreCase)
	for _, group := range flat.keywords {
		kind, _ := syntax.ParseKind(group.kind)
		for _, word := range group.words {
			if _, exists := keywords.Lookup(word); !exists {
				keywords.Add(word, kind)
			}
		}
	}

	imports := make([]string, 0, len(flat.imports))
	for _, imp := range flat.imports {
		imports = append(imports, imp.String())
	}

	c.shells[key].Define(props, rules, keywords, imports)
}

func (c *compiler) rule(fr flatRule, ignoreCase bool) (*syntax.Rule, error) {
	def := fr.def
	rule := &syntax.Rule{
		End:             def.End,
		NoLineBreak:     def.NoLineBreak,
		NoWordBreak:     def.NoWordBreak,
		NoEscape:        def.NoEscape,
		ExcludeMatch:    def.ExcludeMatch,
		AtLineStart:     def.AtLineStart,
		AtWhitespaceEnd: def.AtWhitespaceEnd,
		AtWordStart:     def.AtWordStart,
	}
	if def.Kind != "" {
		rule.Kind, _ = syntax.ParseKind(def.Kind)
	}

	switch def.Type {
	case TypeSeq, TypeSeqRegexp:
		rule.Type = syntax.RuleSeq
	case TypeSpan, TypeSpanRegexp:
		rule.Type = syntax.RuleSpan
	case TypeEOLSpan, TypeEOLSpanRegexp:
		rule.Type = syntax.RuleEOLSpan
	case TypeMarkPrevious:
		rule.Type = syntax.RuleMarkPrevious
	case TypeMarkFollowing:
		rule.Type = syntax.RuleMarkFollowing
	}

	if def.isRegexp() {
		re, err := compilePattern("^(?:"+def.start()+")", ignoreCase)
		if err != nil {
			return nil, err
		}
		rule.StartRE = re
		if def.HashChar != "" {
			rule.HashChar, _ = utf8.DecodeRuneInString(def.HashChar)
		}
	} else {
		rule.Start = def.start()
	}

	if def.Delegate != "" {
		mode, set := splitRef(fr.mode, def.Delegate)
		target, ok := c.shells[setKey{mode: mode, set: set}]
		if !ok {
			c.warnf("delegate %s::%s: %v; span body left undelegated", mode, set, ErrUnknownRuleSet)
		} else {
			rule.Delegate = target
		}
	}
	return rule, nil
}

func (c *compiler) warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

func compilePattern(pattern string, ignoreCase bool) (*regexp.Regexp, error) {
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", pattern, err)
	}
	return re, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
