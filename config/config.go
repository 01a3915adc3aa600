// Package config defines the report generator configuration.
package config

//go:generate go run ../tools/schema-generator

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ReportConfig defines settings for report rendering.
type ReportConfig struct {
	// MaxReportBytes is the byte ceiling for the markdown report.
	// 0 (default): 1,000 KiB, with headroom below the 1,024 KiB platform limit.
	MaxReportBytes int `yaml:"max_report_bytes,omitempty"`

	// SectionCharLimit caps each Parameters/Response section of a tool call.
	// 0 (default): 256 characters.
	SectionCharLimit int `yaml:"section_char_limit,omitempty"`

	// ConsoleMaxLines caps the console rendering.
	// 0 (default): 5000 lines.
	ConsoleMaxLines int `yaml:"console_max_lines,omitempty"`

	// Styled enables terminal colors in console output.
	Styled bool `yaml:"styled,omitempty"`
}

// Config is the top-level configuration structure.
type Config struct {
	Report ReportConfig `yaml:"report,omitempty"`
}

// Load reads the user config file, returning zero-value defaults when the
// file is absent or malformed. Missing config is not an error.
func Load() Config {
	var cfg Config

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	path := filepath.Join(home, ".config", "agent-report", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}
