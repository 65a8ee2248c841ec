package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// yamlIndent is the indentation used when writing configuration files.
const yamlIndent = 2

// ToYAML serializes the configuration to YAML format.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(yamlIndent)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// ToYAMLWithHeader serializes the configuration with a header comment.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	yamlBytes, err := c.ToYAML()
	if err != nil {
		return nil, err
	}
	if header == "" {
		return yamlBytes, nil
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if header[len(header)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(yamlBytes)
	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes. Unknown keys are errors
// so that typos do not go unnoticed.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if cfg.Modes == nil {
		cfg.Modes = make(map[string]ModeConfig)
	}
	if cfg.Styles == nil {
		cfg.Styles = make(map[string]StyleConfig)
	}
	return cfg, nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.LineNumbers = cloneBool(c.LineNumbers)
	clone.ModeDirs = slices.Clone(c.ModeDirs)
	clone.Ignore = slices.Clone(c.Ignore)
	clone.Styles = cloneStyles(c.Styles)

	if c.Modes != nil {
		clone.Modes = make(map[string]ModeConfig, len(c.Modes))
		for name, mc := range c.Modes {
			mc.Styles = cloneStyles(mc.Styles)
			clone.Modes[name] = mc
		}
	}
	return &clone
}

func cloneStyles(styles map[string]StyleConfig) map[string]StyleConfig {
	if styles == nil {
		return nil
	}
	out := maps.Clone(styles)
	for kind, style := range out {
		style.Bold = cloneBool(style.Bold)
		style.Italic = cloneBool(style.Italic)
		style.Underline = cloneBool(style.Underline)
		out[kind] = style
	}
	return out
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}
