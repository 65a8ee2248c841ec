// Package runner highlights many files concurrently with a shared mode
// provider.
package runner

import "github.com/yaklabco/tokmark/pkg/config"

// Options controls a multi-file run.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	// These merge ignore rules from config and CLI (e.g. --ignore).
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// IncludeUnknown keeps files found while walking a directory even when
	// no mode accepts them; they are highlighted as plain text. Files named
	// explicitly in Paths are always kept.
	IncludeUnknown bool

	// Mode forces a mode for every file instead of resolving one.
	Mode string

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

// excludeGlobs returns the CLI excludes followed by the config ignores.
func (o Options) excludeGlobs() []string {
	globs := append([]string(nil), o.ExcludeGlobs...)
	if o.Config != nil {
		globs = append(globs, o.Config.Ignore...)
	}
	return globs
}

// forcedMode returns the mode forced by the options or the config.
func (o Options) forcedMode() string {
	if o.Mode != "" {
		return o.Mode
	}
	if o.Config != nil {
		return o.Config.Mode
	}
	return ""
}
