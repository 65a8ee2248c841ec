package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// AcceptFunc decides whether a file found while walking a directory is
// processed. path is absolute.
type AcceptFunc func(path string) bool

// Discover finds files under opts.Paths. Files named explicitly are always
// returned; files found by walking a directory are returned when accept
// reports true (a nil accept keeps every file). Hidden files and
// directories are skipped while walking. It returns a deterministically
// sorted list of absolute file paths.
func Discover(ctx context.Context, opts Options, accept AcceptFunc) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	excludes, err := compileGlobs(opts.excludeGlobs())
	if err != nil {
		return nil, err
	}

	w := &walker{workDir: workDir, excludes: excludes, accept: accept, opts: opts}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if !w.excluded(absPath) {
				add(absPath)
			}
			continue
		}

		discovered, err := w.walk(ctx, absPath)
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			add(f)
		}
	}

	sort.Strings(files)
	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

type walker struct {
	workDir  string
	excludes []glob.Glob
	accept   AcceptFunc
	opts     Options
}

func (w *walker) walk(ctx context.Context, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if path != root && w.excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				return nil //nolint:nilerr // Intentionally skip broken symlinks
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // Intentionally skip inaccessible symlink targets
			}
			if info.IsDir() {
				if !w.opts.FollowSymlinks {
					return nil
				}
				// Walk the target; WalkDir uses Lstat on its root so this cannot recurse forever.
				subFiles, err := w.walk(ctx, realPath)
				if err != nil {
					return err
				}
				files = append(files, subFiles...)
				return nil
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}
		if w.excluded(path) {
			return nil
		}
		if w.accept != nil && !w.accept(path) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

// excluded matches path, relative to the working directory, and its base
// name against the exclude globs.
func (w *walker) excluded(path string) bool {
	relPath, err := filepath.Rel(w.workDir, path)
	if err != nil {
		relPath = path
	}
	relPath = filepath.ToSlash(relPath)
	base := filepath.Base(path)

	for _, g := range w.excludes {
		if g.Match(relPath) || g.Match(base) {
			return true
		}
	}
	return false
}

// compileGlobs compiles exclude patterns with '/' as separator, so "*"
// stays within one path element and "**" crosses elements. A trailing
// "/**" also matches the directory itself, and a leading "**/" also
// matches at the top level.
func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		for _, variant := range globVariants(pattern) {
			g, err := glob.Compile(variant, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
			}
			globs = append(globs, g)
		}
	}
	return globs, nil
}

func globVariants(pattern string) []string {
	variants := []string{pattern}
	if dir, ok := strings.CutSuffix(pattern, "/**"); ok && dir != "" {
		variants = append(variants, dir)
	}
	for _, v := range variants {
		if rest, ok := strings.CutPrefix(v, "**/"); ok && rest != "" {
			variants = append(variants, rest)
		}
	}
	return variants
}
