// Package langdetect guesses the language of a file or code snippet with
// go-enry and maps it onto tokmark mode names.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Mode names produced by detection.
const (
	ModeC          = "c"
	ModeCPlusPlus  = "cplusplus"
	ModeGo         = "go"
	ModePython     = "python"
	ModePerl       = "perl"
	ModeShell      = "shellscript"
	ModeJSON       = "json"
	ModeYAML       = "yaml"
	ModeMakefile   = "makefile"
	ModeMarkdown   = "markdown"
	ModeJavaScript = "javascript"
)

// enryModes maps go-enry language names to mode names.
//
//nolint:gochecknoglobals // Read-only lookup table.
var enryModes = map[string]string{
	"C":          ModeC,
	"C++":        ModeCPlusPlus,
	"Go":         ModeGo,
	"Python":     ModePython,
	"Perl":       ModePerl,
	"Shell":      ModeShell,
	"JSON":       ModeJSON,
	"YAML":       ModeYAML,
	"Makefile":   ModeMakefile,
	"Markdown":   ModeMarkdown,
	"JavaScript": ModeJavaScript,
}

// classifierCandidates restricts the Bayesian classifier to languages that
// have a mode.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{
	"C", "C++", "Go", "Python", "Perl", "Shell", "JSON", "YAML", "Makefile", "Markdown", "JavaScript",
}

// ForFile returns the mode name for a file, using its name, shebang and
// content. Returns "" when the language is unknown or has no mode.
func ForFile(filename string, content []byte) string {
	lang := enry.GetLanguage(filename, content)
	if lang == "" {
		return ""
	}
	return enryModes[lang]
}

// ForAlias returns the mode name for a language alias such as the info
// string of a fenced code block ("c++", "golang", "Bash"). Returns "" when
// the alias is unknown or the language has no mode.
func ForAlias(alias string) string {
	lang, ok := enry.GetLanguageByAlias(strings.TrimSpace(alias))
	if !ok {
		return ""
	}
	return enryModes[lang]
}

// Detect returns the mode name for a code snippet without a file name, such
// as a fenced code block without an info string. Returns "" if detection
// fails or confidence is low.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return ""
	}

	// Shebang first, it is the most reliable signal.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return enryModes[lang]
	}

	if name := detectByPattern(content); name != "" {
		return name
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe {
		return enryModes[lang]
	}
	return ""
}

// IsBinary reports whether content looks like binary data.
func IsBinary(content []byte) bool {
	return enry.IsBinary(content)
}

// detectByPattern checks for highly indicative patterns the classifier
// tends to miss on short snippets.
func detectByPattern(content []byte) string {
	trimmed := bytes.TrimSpace(content)
	text := string(content)

	switch {
	case bytes.HasPrefix(trimmed, []byte("package ")):
		return ModeGo
	case bytes.HasPrefix(trimmed, []byte("#include")):
		return ModeC
	case strings.Contains(text, "def ") && strings.Contains(text, "):"),
		strings.Contains(text, "__name__"):
		return ModePython
	case (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
		bytes.Contains(trimmed, []byte(`":`)):
		return ModeJSON
	case strings.Contains(text, "my $") || strings.Contains(text, "use strict;"):
		return ModePerl
	}
	return ""
}
