package syntax

import (
	"maps"
	"strings"
)

// KeywordMap maps literal words to token kinds.
// The zero value is not usable; use NewKeywordMap.
type KeywordMap struct {
	ignoreCase bool
	words      map[string]Kind
	// extraChars holds non-alphanumeric characters that occur in keywords,
	// so word scanning can treat them as word constituents.
	extraChars string
}

// NewKeywordMap creates an empty keyword map.
func NewKeywordMap(ignoreCase bool) *KeywordMap {
	return &KeywordMap{
		ignoreCase: ignoreCase,
		words:      make(map[string]Kind),
	}
}

func (m *KeywordMap) key(word string) string {
	if m.ignoreCase {
		return strings.ToLower(word)
	}
	return word
}

// Add maps word to kind, replacing any previous mapping.
func (m *KeywordMap) Add(word string, kind Kind) {
	if word == "" {
		return
	}
	for _, r := range word {
		if !isAlphaNum(r) && !strings.ContainsRune(m.extraChars, r) {
			m.extraChars += string(r)
		}
	}
	m.words[m.key(word)] = kind
}

// AddMissing copies the mappings of other that m does not define yet.
func (m *KeywordMap) AddMissing(other *KeywordMap) {
	if other == nil {
		return
	}
	for word, kind := range other.words {
		if _, ok := m.words[m.key(word)]; !ok {
			m.Add(word, kind)
		}
	}
}

// Lookup returns the kind of word, or (Null, false) if it is not a keyword.
func (m *KeywordMap) Lookup(word string) (Kind, bool) {
	if m == nil || len(m.words) == 0 {
		return Null, false
	}
	kind, ok := m.words[m.key(word)]
	return kind, ok
}

// IgnoreCase reports whether lookups are case-insensitive.
func (m *KeywordMap) IgnoreCase() bool {
	return m.ignoreCase
}

// ExtraChars returns the non-alphanumeric characters used by keywords.
func (m *KeywordMap) ExtraChars() string {
	if m == nil {
		return ""
	}
	return m.extraChars
}

// Len returns the number of keywords.
func (m *KeywordMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.words)
}

// Words returns a copy of the word table.
func (m *KeywordMap) Words() map[string]Kind {
	if m == nil {
		return nil
	}
	return maps.Clone(m.words)
}
