// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support, and validation.
package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/yaklabco/tokmark/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (TOKMARK_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.tokmark.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/tokmark/config.yaml)
//  6. System config (/etc/tokmark/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	layers := []struct {
		name    string
		path    string
		skipped bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	}
	for _, layer := range layers {
		if layer.skipped || layer.path == "" {
			continue
		}
		fileCfg, err := loadConfigFile(layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		result.Warnings = append(result.Warnings, normalizeStyleKeys(fileCfg, layer.path)...)
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile loads a configuration from a YAML file. Relative mode_dirs
// are resolved against the file's directory.
func loadConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i, dir := range cfg.ModeDirs {
		if !filepath.IsAbs(dir) {
			cfg.ModeDirs[i] = filepath.Join(base, dir)
		}
	}

	return cfg, nil
}

// normalizeStyleKeys rewrites style keys to canonical kind names so that
// "comment" and "COMMENT1" merge as the same entry. Unknown keys are kept
// for validation to report. A kind given under two keys keeps the value of
// the key that sorts last, with a warning.
func normalizeStyleKeys(cfg *config.Config, source string) []string {
	var warnings []string
	cfg.Styles, warnings = normalizeStyleMap(cfg.Styles, source, "styles")
	for name, mc := range cfg.Modes {
		var modeWarnings []string
		mc.Styles, modeWarnings = normalizeStyleMap(mc.Styles, source, "modes."+name+".styles")
		cfg.Modes[name] = mc
		warnings = append(warnings, modeWarnings...)
	}
	return warnings
}

func normalizeStyleMap(
	styles map[string]config.StyleConfig,
	source, field string,
) (map[string]config.StyleConfig, []string) {
	if len(styles) == 0 {
		return styles, nil
	}

	keys := make([]string, 0, len(styles))
	for key := range styles {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var warnings []string
	normalized := make(map[string]config.StyleConfig, len(styles))
	seen := make(map[string]string, len(styles))
	for _, key := range keys {
		canonical, ok := ResolveKindKey(key)
		if !ok {
			normalized[key] = styles[key]
			continue
		}
		if original, dup := seen[canonical]; dup {
			warnings = append(warnings,
				fmt.Sprintf("%s: %s: %q and %q both refer to %s; using %q",
					source, field, original, key, canonical, key))
		}
		seen[canonical] = key
		normalized[canonical] = styles[key]
	}
	return normalized, warnings
}
