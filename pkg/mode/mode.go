// Package mode defines languages (modes) and the registry that loads them
// and picks one for a file.
package mode

import (
	"maps"
	"slices"

	"github.com/yaklabco/tokmark/pkg/grammar"
	"github.com/yaklabco/tokmark/pkg/syntax"
)

// Mode is a loaded language: its rule sets, properties and file
// association. A Mode is immutable and safe to share between documents and
// goroutines.
type Mode struct {
	name     string
	props    map[string]string
	main     *syntax.RuleSet
	sets     map[string]*syntax.RuleSet
	marker   *syntax.TokenMarker
	assoc    Association
	warnings []string
	fallback bool
}

// New builds a mode from a compiled grammar.
func New(name string, compiled *grammar.Compiled, assoc Association) *Mode {
	return &Mode{
		name:     name,
		props:    maps.Clone(compiled.Props),
		main:     compiled.Main,
		sets:     maps.Clone(compiled.Sets),
		marker:   syntax.NewTokenMarker(compiled.Main),
		assoc:    assoc,
		warnings: slices.Clone(compiled.Warnings),
	}
}

// Plain builds a mode without rules: every line is a single NULL token.
func Plain(name string, assoc Association) *Mode {
	main := syntax.PlainRuleSet(name)
	return &Mode{
		name:     name,
		props:    map[string]string{},
		main:     main,
		sets:     map[string]*syntax.RuleSet{main.QualifiedName(): main},
		marker:   syntax.NewTokenMarker(main),
		assoc:    assoc,
		fallback: true,
	}
}

// Name returns the mode name.
func (m *Mode) Name() string { return m.name }

// Property returns a mode property such as "lineComment".
func (m *Mode) Property(key string) (string, bool) {
	v, ok := m.props[key]
	return v, ok
}

// Props returns a copy of all mode properties.
func (m *Mode) Props() map[string]string { return maps.Clone(m.props) }

// MainRuleSet returns the default rule set.
func (m *Mode) MainRuleSet() *syntax.RuleSet { return m.main }

// RuleSet returns a rule set by qualified name ("c::MAIN") or by a name
// local to this mode ("MAIN").
func (m *Mode) RuleSet(name string) (*syntax.RuleSet, bool) {
	if rs, ok := m.sets[name]; ok {
		return rs, true
	}
	rs, ok := m.sets[m.name+"::"+name]
	return rs, ok
}

// RuleSetNames returns the qualified names of all rule sets, sorted.
func (m *Mode) RuleSetNames() []string {
	return slices.Sorted(maps.Keys(m.sets))
}

// Keywords returns the keyword map of the main rule set.
func (m *Mode) Keywords() *syntax.KeywordMap { return m.main.Keywords() }

// TokenMarker returns the marker lexing this mode.
func (m *Mode) TokenMarker() *syntax.TokenMarker { return m.marker }

// Association returns the file association.
func (m *Mode) Association() Association { return m.assoc }

// Warnings returns the problems found while compiling the grammar.
func (m *Mode) Warnings() []string { return slices.Clone(m.warnings) }

// IsFallback reports whether the mode has no rules, either by design or
// because its grammar failed to load.
func (m *Mode) IsFallback() bool { return m.fallback }
