package mode

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Association decides which files a mode accepts, by file name glob and by
// first-line glob. Globs support *, ?, [...] and {a,b} alternation. A file
// name glob containing a slash is matched against the whole path.
type Association struct {
	FileNameGlob  string
	FirstLineGlob string

	fileGlob glob.Glob
	lineGlob glob.Glob
}

// NewAssociation compiles the given globs. Empty globs never match.
func NewAssociation(fileNameGlob, firstLineGlob string) (Association, error) {
	assoc := Association{FileNameGlob: fileNameGlob, FirstLineGlob: firstLineGlob}

	if fileNameGlob != "" {
		g, err := glob.Compile(fileNameGlob)
		if err != nil {
			return Association{}, fmt.Errorf("file name glob %q: %w", fileNameGlob, err)
		}
		assoc.fileGlob = g
	}
	if firstLineGlob != "" {
		g, err := glob.Compile(firstLineGlob)
		if err != nil {
			return Association{}, fmt.Errorf("first line glob %q: %w", firstLineGlob, err)
		}
		assoc.lineGlob = g
	}
	return assoc, nil
}

// AcceptFile reports whether the file name glob matches.
func (a Association) AcceptFile(path, filename string) bool {
	if a.fileGlob == nil {
		return false
	}
	if strings.Contains(a.FileNameGlob, "/") {
		return a.fileGlob.Match(path)
	}
	return a.fileGlob.Match(filename)
}

// AcceptFirstLine reports whether the first-line glob matches.
func (a Association) AcceptFirstLine(firstLine string) bool {
	if a.lineGlob == nil || firstLine == "" {
		return false
	}
	return a.lineGlob.Match(firstLine)
}

// Accept reports whether either glob matches.
func (a Association) Accept(path, filename, firstLine string) bool {
	return a.AcceptFile(path, filename) || a.AcceptFirstLine(firstLine)
}

// AcceptIdentical reports whether the file name is literally the mode's
// file name glob, as opposed to merely matching it.
func (a Association) AcceptIdentical(path, filename string) bool {
	if a.FileNameGlob == "" {
		return false
	}
	if strings.Contains(a.FileNameGlob, "/") {
		return a.FileNameGlob == path
	}
	return a.FileNameGlob == filename
}
