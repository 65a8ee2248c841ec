//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/tokmark"

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"i":   Install,
	"g":   Grammars,
	"cmp": Bench.Corpus,
}

type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles bin/tokmark unless it is newer than every source and
// embedded grammar.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building tokmark...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/tokmark")
}

// Install installs tokmark to $GOBIN or $GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/tokmark")
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Grammars, Test.Default)
}

// Clean removes build and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Grammars checks that every built-in grammar compiles without warnings.
func Grammars() error {
	fmt.Println("Compiling built-in grammars...")
	return gotest("-run", "TestDefaultProvider_BuiltinsCompileCleanly", "./pkg/mode")
}

// Default runs the test suite with the race detector and coverage.
func (Test) Default() error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return gotest("-race", "-p", procs, "-parallel", procs,
		"-coverprofile=coverage.out", "-covermode=atomic", "./...")
}

// Rapid runs the lexer and buffer property tests with more cases.
func (Test) Rapid() error {
	checks := cmp.Or(os.Getenv("RAPID_CHECKS"), "2000")
	return gotest("-run", "Property|Rapid", "./pkg/syntax", "./pkg/buffer", "-args", "-rapid.checks="+checks)
}

// Cover renders coverage.out as HTML.
func (Test) Cover() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when a file is not gofmt-clean.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return nil
}

// Gate runs every check CI runs.
func (CI) Gate() error {
	st.SerialDeps(Lint.FmtCheck, CI.Vet, CI.Lint, Build, Grammars, Test.Default, CI.ModTidy)
	fmt.Println("✓ CI gate passed")
	return nil
}

// Vet runs go vet.
func (CI) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Lint runs golangci-lint without modifying files.
func (CI) Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	before, err := readModFiles()
	if err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := readModFiles()
	if err != nil {
		return err
	}
	if !bytes.Equal(before, after) {
		return errors.New("go.mod or go.sum changed after 'go mod tidy'")
	}
	return nil
}

// Default runs the Go benchmarks.
func (Bench) Default() error {
	return gotest("-run", "^$", "-bench=.", "-benchmem", "./...")
}

// Corpus times highlighting the Go standard library sources.
func (Bench) Corpus() error {
	st.Deps(Build)
	return timeCorpus("src")
}

// Fast times highlighting GOROOT/src/strings.
func (Bench) Fast() error {
	st.Deps(Build)
	return timeCorpus(filepath.Join("src", "strings"))
}

func gotest(args ...string) error {
	base := []string{"tool", "gotestsum", "-f", "pkgname-and-test-fails", "--"}
	return sh.RunV("go", append(base, args...)...)
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}

func readModFiles() ([]byte, error) {
	var all []byte
	for _, name := range []string{"go.mod", "go.sum"} {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		all = append(all, data...)
	}
	return all, nil
}

// timeCorpus runs a summary highlight of a directory under GOROOT.
func timeCorpus(rel string) error {
	goroot, err := sh.Output("go", "env", "GOROOT")
	if err != nil {
		return fmt.Errorf("go env GOROOT: %w", err)
	}
	dir := filepath.Join(strings.TrimSpace(goroot), rel)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("corpus %s: %w", dir, err)
	}

	start := time.Now()
	if err := sh.RunV(binary, "--no-config", "highlight", "--format", "summary", dir); err != nil {
		return err
	}
	fmt.Printf("✓ %s highlighted in %s\n", dir, time.Since(start).Round(time.Millisecond))
	return nil
}
