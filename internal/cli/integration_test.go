package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tokmark/internal/cli"
	"github.com/yaklabco/tokmark/pkg/reporter"
)

const cSource = "int main(void) {\n\treturn 0; /* done\n   here */\n}\n"

// execute runs the CLI with project and user configuration disabled.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--no-config", "--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIntegration_HighlightText(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "main.c", cSource)

	stdout, _, err := execute(t, "", "highlight", path)
	require.NoError(t, err)
	assert.Equal(t, "int main(void) {\n    return 0; /* done\n   here */\n}\n", stdout)
}

func TestIntegration_HighlightLineNumbersAndTabWidth(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "main.c", cSource)

	stdout, _, err := execute(t, "", "highlight", "-n", "--tab-width", "2", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "1 │ int main(void) {", lines[0])
	assert.Equal(t, "2 │   return 0; /* done", lines[1])
}

func TestIntegration_HighlightJSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "main.c", cSource)

	stdout, _, err := execute(t, "", "highlight", "--format", "json", path)
	require.NoError(t, err)

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Files, 1)

	file := out.Files[0]
	assert.Equal(t, "c", file.Mode)
	require.Len(t, file.Lines, 4)

	// The block comment opened on line 2 carries over to line 3.
	line3 := file.Lines[2]
	require.NotEmpty(t, line3.Tokens)
	assert.Equal(t, "COMMENT1", line3.Tokens[0].Kind)
	assert.Equal(t, "   here */", line3.Tokens[0].Text)
}

func TestIntegration_HighlightDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.c", "int a;\n")
	writeFile(t, dir, "lib/b.py", "def b():\n    pass\n")
	writeFile(t, dir, "notes.unknown", "nothing\n")
	writeFile(t, dir, "vendor/c.c", "int c;\n")

	stdout, stderr, err := execute(t, "", "highlight", "--format", "summary", "--ignore", "vendor/**", dir)
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "a.c")
	assert.Contains(t, stdout, "b.py")
	assert.NotContains(t, stdout, "notes.unknown")
	assert.NotContains(t, stdout, "c.c")
	assert.Contains(t, stdout, "Files highlighted: 2")
}

func TestIntegration_HighlightStdin(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "package main\n\nfunc main() {}\n", "highlight", "--format", "json", "-")
	require.NoError(t, err)

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Files, 1)
	assert.Equal(t, "-", out.Files[0].Path)
	assert.Equal(t, "go", out.Files[0].Mode)
}

func TestIntegration_HighlightForcedMode(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "tool.cgi", "my $x = 1;\n")

	stdout, _, err := execute(t, "", "highlight", "--format", "json", "--mode", "perl", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"mode": "perl"`)
}

func TestIntegration_HighlightMissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "", "highlight", filepath.Join(t.TempDir(), "missing.c"))
	require.Error(t, err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCodeFromError(err))
}

func TestIntegration_HighlightUnknownForcedMode(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "main.c", cSource)

	_, stderr, err := execute(t, "", "highlight", "--mode", "cobol", path)
	require.ErrorIs(t, err, cli.ErrFilesFailed)
	assert.Contains(t, stderr, "unknown mode")
}

func TestIntegration_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "", "highlight", "--format", "sarif", ".")
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestIntegration_ConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "main.inc", "int x;\n")
	cfgFile := writeFile(t, dir, "custom.yml", "modes:\n  c:\n    file_name_glob: \"*.{c,h,inc}\"\n")

	stdout, _, err := execute(t, "", "--config", cfgFile, "highlight", "--format", "json", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"mode": "c"`)
}

func TestIntegration_InvalidConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "bad.yml", "tab_width: 99\n")

	_, _, err := execute(t, "", "--config", cfgFile, "highlight", dir)
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCodeFromError(err))
}

func TestIntegration_Tokens(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "main.c", "int x;\n")

	stdout, _, err := execute(t, "", "tokens", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "LINE  COL  LEN  KIND")
	assert.Contains(t, stdout, `"int"`)

	stdout, _, err = execute(t, "", "tokens", "--json", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"kind": "KEYWORD3"`)
}

func TestIntegration_Modes(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "modes")
	require.NoError(t, err)
	assert.Contains(t, stdout, "MODE")
	assert.Contains(t, stdout, "cplusplus")
	assert.Contains(t, stdout, "cpp, c++")

	stdout, _, err = execute(t, "", "modes", "--format", "json")
	require.NoError(t, err)
	var infos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
	assert.NotEmpty(t, infos)
}

func TestIntegration_ModesResolve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	script := writeFile(t, dir, "run", "#!/usr/bin/env python3\nprint(1)\n")
	notes := writeFile(t, dir, "NOTES", "just some words\n")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"by file name", filepath.Join(dir, "main.go"), "go (association)"},
		{"by first line", script, "python (association)"},
		{"fallback", notes, "text (fallback)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, _, err := execute(t, "", "modes", "--resolve", tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.path+": "+tt.want+"\n", stdout)
		})
	}
}

func TestIntegration_Blocks(t *testing.T) {
	t.Parallel()

	doc := "# Demo\n\n```c\nint x;\n```\n\nText.\n\n```cobol\nDISPLAY.\n```\n"
	path := writeFile(t, t.TempDir(), "README.md", doc)

	stdout, _, err := execute(t, "", "blocks", "-n", path)
	require.NoError(t, err)
	assert.Equal(t,
		path+":3 [c]\n4 │ int x;\n\n"+path+":9 [text] (plain text)\n10 │ DISPLAY.\n",
		stdout)

	stdout, _, err = execute(t, "", "blocks", "--list", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "LINE  LANG   MODE  LINES")
	assert.Contains(t, stdout, "9     cobol  text  1")
}

func TestIntegration_Init(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "tokmark.yml")

	_, _, err := execute(t, "", "init", "--full", "--output", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tab_width: 4")
	assert.Contains(t, string(data), "KEYWORD1")
	assert.Contains(t, string(data), "#   cplusplus:")

	_, _, err = execute(t, "", "init", "--output", output)
	require.ErrorIs(t, err, cli.ErrUsage)

	require.NoError(t, os.WriteFile(output, []byte("tab_width: 2\n"), 0o600))
	_, _, err = execute(t, "", "init", "--force", "--output", output)
	require.NoError(t, err)

	backup, err := os.ReadFile(output + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "tab_width: 2\n", string(backup))
}

func TestIntegration_Help(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "", "highlight", "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Usage:\n  tokmark highlight [paths...|-] [flags]")
	assert.Contains(t, stdout, "--format string")
	assert.Contains(t, stdout, `(default "text")`)
	assert.Contains(t, stdout, "-n, --line-numbers")
	assert.Contains(t, stdout, "Global Flags:")
	assert.NotContains(t, stdout, "\x1b[", "--color never disables styling")

	stdout, _, err = execute(t, "", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Commands:")
	assert.Contains(t, stdout, "highlight")
	assert.Contains(t, stdout, "TOKMARK_TAB_WIDTH")
}
