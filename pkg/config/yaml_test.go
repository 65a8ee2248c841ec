package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/tokmark/pkg/config"
)

func boolPtr(b bool) *bool { return &b }

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies styles and modes", func(t *testing.T) {
		original := &config.Config{
			LineNumbers: boolPtr(true),
			Styles: map[string]config.StyleConfig{
				"KEYWORD1": {Foreground: "12", Bold: boolPtr(true)},
			},
			Modes: map[string]config.ModeConfig{
				"c": {
					FileNameGlob: "*.c",
					Styles:       map[string]config.StyleConfig{"COMMENT1": {Italic: boolPtr(true)}},
				},
			},
			Ignore:   []string{"vendor/**"},
			ModeDirs: []string{"modes"},
		}

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.Equal(t, original, clone)

		*clone.LineNumbers = false
		*clone.Styles["KEYWORD1"].Bold = false
		clone.Modes["c"].Styles["COMMENT1"] = config.StyleConfig{Foreground: "1"}
		clone.Ignore[0] = "changed"
		clone.ModeDirs[0] = "changed"

		assert.True(t, *original.LineNumbers)
		assert.True(t, *original.Styles["KEYWORD1"].Bold)
		assert.True(t, *original.Modes["c"].Styles["COMMENT1"].Italic)
		assert.Equal(t, "vendor/**", original.Ignore[0])
		assert.Equal(t, "modes", original.ModeDirs[0])
	})

	t.Run("preserves CLI fields", func(t *testing.T) {
		original := config.NewConfig()
		original.Format = config.FormatJSON
		original.Jobs = 4
		original.Mode = "go"
		original.Color = config.ColorNever

		clone := original.Clone()
		assert.Equal(t, config.FormatJSON, clone.Format)
		assert.Equal(t, 4, clone.Jobs)
		assert.Equal(t, "go", clone.Mode)
		assert.Equal(t, config.ColorNever, clone.Color)
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("CLI fields are not written", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.Format = config.FormatJSON
		cfg.Mode = "go"

		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Contains(t, string(data), "tab_width: 4")
		assert.NotContains(t, string(data), "json")
		assert.NotContains(t, string(data), "go")
	})

	t.Run("header", func(t *testing.T) {
		data, err := config.NewConfig().ToYAMLWithHeader(config.DefaultTemplateHeader())
		require.NoError(t, err)
		assert.Contains(t, string(data), "# tokmark configuration\n\n")
	})
}

func TestFromYAML(t *testing.T) {
	t.Run("parses styles and modes", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte(`
tab_width: 8
line_numbers: true
styles:
  KEYWORD1:
    foreground: "#ff8800"
    bold: true
modes:
  python:
    first_line_glob: "#!*python3*"
    styles:
      COMMENT1: {italic: true}
`))
		require.NoError(t, err)
		assert.Equal(t, 8, cfg.TabWidth)
		assert.True(t, cfg.ShowLineNumbers())
		assert.Equal(t, "#ff8800", cfg.Styles["KEYWORD1"].Foreground)
		assert.Equal(t, "#!*python3*", cfg.Modes["python"].FirstLineGlob)
	})

	t.Run("empty document", func(t *testing.T) {
		cfg, err := config.FromYAML(nil)
		require.NoError(t, err)
		assert.NotNil(t, cfg.Styles)
		assert.NotNil(t, cfg.Modes)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		_, err := config.FromYAML([]byte("tabwidth: 2\n"))
		assert.Error(t, err)
	})
}

func TestStylesFor(t *testing.T) {
	cfg := &config.Config{
		Styles: map[string]config.StyleConfig{
			"KEYWORD1": {Foreground: "12", Bold: boolPtr(true)},
		},
		Modes: map[string]config.ModeConfig{
			"go": {Styles: map[string]config.StyleConfig{
				"KEYWORD1": {Foreground: "13"},
				"DIGIT":    {Foreground: "3"},
			}},
		},
	}

	goStyles := cfg.StylesFor("go")
	assert.Equal(t, "13", goStyles["KEYWORD1"].Foreground)
	assert.True(t, *goStyles["KEYWORD1"].Bold, "mode styles layer over global ones")
	assert.Equal(t, "3", goStyles["DIGIT"].Foreground)

	cStyles := cfg.StylesFor("c")
	assert.Equal(t, "12", cStyles["KEYWORD1"].Foreground)
	assert.NotContains(t, cStyles, "DIGIT")
}

func TestGenerateTemplate(t *testing.T) {
	minimal := string(config.GenerateTemplate(config.TemplateOptions{}))
	assert.Contains(t, minimal, "tab_width: 4")

	_, err := config.FromYAML([]byte(minimal))
	require.NoError(t, err, "the template must load")

	full := string(config.GenerateTemplate(config.TemplateOptions{
		Full:  true,
		Kinds: []string{"KEYWORD1", "COMMENT1"},
		Modes: []config.ModeInfo{{Name: "perl", FileNameGlob: "*.pl", FirstLineGlob: "#!*perl*"}},
	}))
	assert.Contains(t, full, "#   COMMENT1\n#   KEYWORD1\n")
	assert.Contains(t, full, `#     first_line_glob: "#!*perl*"`)

	_, err = config.FromYAML([]byte(full))
	require.NoError(t, err)
}
