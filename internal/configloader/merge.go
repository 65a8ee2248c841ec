package configloader

import "github.com/yaklabco/tokmark/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Pointer values: override overwrites base if override is non-nil
//   - Maps: deep merge, with override's values taking precedence
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.TabWidth != 0 {
		result.TabWidth = override.TabWidth
	}
	if override.LineNumbers != nil {
		result.LineNumbers = override.LineNumbers
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Mode != "" {
		result.Mode = override.Mode
	}
	if override.Color != "" {
		result.Color = override.Color
	}

	result.Styles = mergeStyles(base.Styles, override.Styles)
	result.Modes = mergeModes(base.Modes, override.Modes)

	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.ModeDirs != nil {
		result.ModeDirs = override.ModeDirs
	}

	return &result
}

// mergeStyles merges style maps per kind, field by field.
func mergeStyles(base, override map[string]config.StyleConfig) map[string]config.StyleConfig {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]config.StyleConfig, len(base)+len(override))
	for kind, style := range base {
		result[kind] = style
	}
	for kind, style := range override {
		result[kind] = result[kind].Overlay(style)
	}
	return result
}

// mergeModes merges per-mode overrides; globs replace, styles merge.
func mergeModes(base, override map[string]config.ModeConfig) map[string]config.ModeConfig {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]config.ModeConfig, len(base)+len(override))
	for name, mc := range base {
		result[name] = mc
	}
	for name, mc := range override {
		existing := result[name]
		if mc.FileNameGlob != "" {
			existing.FileNameGlob = mc.FileNameGlob
		}
		if mc.FirstLineGlob != "" {
			existing.FirstLineGlob = mc.FirstLineGlob
		}
		existing.Styles = mergeStyles(existing.Styles, mc.Styles)
		result[name] = existing
	}
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
