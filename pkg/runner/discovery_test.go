package runner_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/yaklabco/tokmark/pkg/config"
	"github.com/yaklabco/tokmark/pkg/runner"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("setup mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("setup write: %v", err)
		}
	}
}

func rel(t *testing.T, dir string, files []string) string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(dir, f)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		out = append(out, filepath.ToSlash(r))
	}
	return strings.Join(out, " ")
}

func TestDiscover_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"blob.unknown": "x"})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"blob.unknown"},
		WorkingDir: dir,
	}, func(string) bool { return false })
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if got := rel(t, dir, files); got != "blob.unknown" {
		t.Errorf("explicit files bypass accept, got %q", got)
	}
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"main.c":          "",
		"src/util.go":     "",
		"src/util.o":      "",
		".hidden/x.c":     "",
		"src/.secret.c":   "",
		"docs/readme.md":  "",
		"docs/image.png":  "",
		"build/out/gen.c": "",
	})

	accept := func(path string) bool {
		ext := filepath.Ext(path)
		return ext == ".c" || ext == ".go" || ext == ".md"
	}

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir}, accept)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := "build/out/gen.c docs/readme.md main.c src/util.go"
	if got := rel(t, dir, files); got != want {
		t.Errorf("Discover() = %q, want %q", got, want)
	}
}

func TestDiscover_ExcludeGlobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"main.c":               "",
		"app.min.js":           "",
		"vendor/lib/a.c":       "",
		"third/vendor/b.c":     "",
		"build/gen.c":          "",
		"src/generated_x.c":    "",
		"src/deep/generated.c": "",
	})

	tests := []struct {
		name    string
		cli     []string
		ignore  []string
		want    string
	}{
		{name: "none", want: "app.min.js build/gen.c main.c src/deep/generated.c src/generated_x.c third/vendor/b.c vendor/lib/a.c"},
		{name: "base name", cli: []string{"*.min.js"}, want: "build/gen.c main.c src/deep/generated.c src/generated_x.c third/vendor/b.c vendor/lib/a.c"},
		{name: "directory", ignore: []string{"build/**"}, want: "app.min.js main.c src/deep/generated.c src/generated_x.c third/vendor/b.c vendor/lib/a.c"},
		{name: "anywhere", ignore: []string{"**/vendor/**"}, want: "app.min.js build/gen.c main.c src/deep/generated.c src/generated_x.c"},
		{name: "cli and config", cli: []string{"src/**"}, ignore: []string{"*.js"}, want: "build/gen.c main.c third/vendor/b.c vendor/lib/a.c"},
		{name: "star stays in element", cli: []string{"src/generated*"}, want: "app.min.js build/gen.c main.c src/deep/generated.c third/vendor/b.c vendor/lib/a.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			cfg.Ignore = tt.ignore
			files, err := runner.Discover(context.Background(), runner.Options{
				WorkingDir:   dir,
				ExcludeGlobs: tt.cli,
				Config:       cfg,
			}, nil)
			if err != nil {
				t.Fatalf("Discover() error = %v", err)
			}
			if got := rel(t, dir, files); got != tt.want {
				t.Errorf("Discover() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDiscover_InvalidExclude(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   t.TempDir(),
		ExcludeGlobs: []string{"[a-"},
	}, nil)
	if err == nil || !strings.Contains(err.Error(), "invalid exclude pattern") {
		t.Errorf("expected invalid pattern error, got %v", err)
	}
}

func TestDiscover_DeduplicationAndOrdering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"b.c": "", "a.c": "", "sub/c.c": ""})

	files, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"sub", "b.c", ".", "a.c"},
		WorkingDir: dir,
	}, nil)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if got := rel(t, dir, files); got != "a.c b.c sub/c.c" {
		t.Errorf("Discover() = %q", got)
	}
}

func TestDiscover_NonExistentPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"missing"},
		WorkingDir: t.TempDir(),
	}, nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestDiscover_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: t.TempDir()}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	t.Parallel()

	dir := t.TempDir()
	outside := t.TempDir()
	writeTree(t, dir, map[string]string{"main.c": ""})
	writeTree(t, outside, map[string]string{"lib.c": ""})
	if err := os.Symlink(outside, filepath.Join(dir, "linked")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir}, nil)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 1 {
		t.Errorf("directory symlinks are not followed by default, got %v", files)
	}

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true}, nil)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 2 {
		t.Errorf("expected the linked file too, got %v", files)
	}
}
