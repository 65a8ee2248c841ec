package pretty_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/tokmark/internal/ui/pretty"
	"github.com/yaklabco/tokmark/pkg/config"
	"github.com/yaklabco/tokmark/pkg/syntax"
)

func TestTheme_Disabled(t *testing.T) {
	var buf bytes.Buffer
	theme := pretty.NewTheme(pretty.NewRenderer(&buf, false), false, config.NewConfig())

	assert.False(t, theme.Enabled())
	assert.Equal(t, "int", theme.Render("c", syntax.Keyword3, "int"))
}

func TestTheme_DefaultsAndOverrides(t *testing.T) {
	var buf bytes.Buffer
	r := pretty.NewRenderer(&buf, true)

	bold := true
	cfg := config.NewConfig()
	cfg.Styles = map[string]config.StyleConfig{
		"comment": {Foreground: "#ff8800"},
	}
	cfg.Modes = map[string]config.ModeConfig{
		"go": {Styles: map[string]config.StyleConfig{"KEYWORD3": {Bold: &bold}}},
	}

	theme := pretty.NewTheme(r, true, cfg)
	assert.True(t, theme.Enabled())

	plain := pretty.NewTheme(r, true, nil)
	assert.NotEqual(t,
		plain.Render("c", syntax.Comment1, "/* x */"),
		theme.Render("c", syntax.Comment1, "/* x */"),
		"global style replaces the default color")

	assert.Equal(t, "x", theme.Render("c", syntax.Null, "x"), "NULL has no default style")
	assert.Contains(t, theme.Render("c", syntax.Keyword1, "if"), "\x1b[")
	assert.Empty(t, theme.Render("c", syntax.Keyword1, ""))

	assert.True(t, theme.Style("go", syntax.Keyword3).GetBold())
	assert.False(t, theme.Style("c", syntax.Keyword3).GetBold())
	assert.Equal(t, theme.Style("c", syntax.Comment1).GetForeground(), theme.Style("go", syntax.Comment1).GetForeground(),
		"per-mode styles inherit the global ones")
}
