package configloader

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/yaklabco/tokmark/pkg/config"
)

// envVarPrefix is the prefix for all tokmark environment variables.
const envVarPrefix = "TOKMARK_"

type envVar struct {
	field string
	help  string
	set   func(cfg *config.Config, raw string) error
}

// envVars maps variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = map[string]envVar{
	"TAB_WIDTH": {"tab_width", "Tab stop width for text output (1-16)",
		intVar(func(c *config.Config, v int) { c.TabWidth = v })},
	"LINE_NUMBERS": {"line_numbers", "Prefix text output with line numbers: true or false",
		boolVar(func(c *config.Config, v bool) { c.LineNumbers = &v })},
	"LOG_LEVEL": {"log_level", "Log level: debug, info, warn, or error",
		stringVar(func(c *config.Config, v string) { c.LogLevel = v })},
	"MODE_DIRS": {"mode_dirs", "Comma-separated list of extra mode directories",
		listVar(func(c *config.Config, v []string) { c.ModeDirs = v })},
	"IGNORE": {"ignore", "Comma-separated list of ignore patterns",
		listVar(func(c *config.Config, v []string) { c.Ignore = v })},
	"FORMAT": {"format", "Output format: text, tokens, json, or summary",
		stringVar(func(c *config.Config, v string) { c.Format = config.OutputFormat(v) })},
	"JOBS": {"jobs", "Number of parallel workers (0 = auto)",
		intVar(func(c *config.Config, v int) { c.Jobs = v })},
	"COLOR": {"color", "Color output: auto, always, or never",
		stringVar(func(c *config.Config, v string) { c.Color = config.ColorMode(v) })},
	"MODE": {"mode", "Force a mode for every input",
		stringVar(func(c *config.Config, v string) { c.Mode = v })},
}

func stringVar(set func(*config.Config, string)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		set(cfg, raw)
		return nil
	}
}

func intVar(set func(*config.Config, int)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid integer %q", raw)
		}
		set(cfg, v)
		return nil
	}
}

func boolVar(set func(*config.Config, bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", raw)
		}
		set(cfg, v)
		return nil
	}
}

func listVar(set func(*config.Config, []string)) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		items := lo.FilterMap(strings.Split(raw, ","), func(s string, _ int) (string, bool) {
			s = strings.TrimSpace(s)
			return s, s != ""
		})
		set(cfg, items)
		return nil
	}
}

// LoadFromEnv applies TOKMARK_* variables to cfg. Empty variables are
// ignored. Variables are applied in name order so errors are stable.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	names := lo.Keys(envVars)
	slices.Sort(names)
	for _, name := range names {
		raw := os.Getenv(envVarPrefix + name)
		if raw == "" {
			continue
		}
		if err := envVars[name].set(cfg, raw); err != nil {
			return fmt.Errorf("%s%s: %w", envVarPrefix, name, err)
		}
	}
	return nil
}

// GetEnvVarName returns the environment variable that sets a config field.
func GetEnvVarName(field string) string {
	for name, v := range envVars {
		if v.field == field {
			return envVarPrefix + name
		}
	}
	return ""
}

// ListEnvVars returns every supported variable with its description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envVars))
	for name, v := range envVars {
		out[envVarPrefix+name] = v.help
	}
	return out
}
