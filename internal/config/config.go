package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcncl/tinyjson/internal/formatter"
	"github.com/mcncl/tinyjson/internal/transform"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for tinyjson
type Config struct {
	Escaping string       `yaml:"escaping"`
	Keys     KeysConfig   `yaml:"keys"`
	Output   OutputConfig `yaml:"output"`
	Dev      DevConfig    `yaml:"dev"`
}

// KeysConfig controls object key rewriting
type KeysConfig struct {
	Style    string            `yaml:"style"`
	Mappings map[string]string `yaml:"mappings"`
}

// OutputConfig controls how the rendered text is written
type OutputConfig struct {
	TrailingNewline bool `yaml:"trailing_newline"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Escaping: formatter.EscapeQuotes.String(),
		Keys: KeysConfig{
			Style:    "",
			Mappings: make(map[string]string),
		},
		Output: OutputConfig{
			TrailingNewline: true,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".tinyjson.yml", ".tinyjson.yaml", "tinyjson.yml", "tinyjson.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that every enumerated option has a known value
func (c *Config) Validate() error {
	if _, err := formatter.ParseEscaping(c.Escaping); err != nil {
		return err
	}
	if _, err := transform.ParseKeyStyle(c.Keys.Style); err != nil {
		return err
	}
	return nil
}

// FormatterOptions converts the config into formatter options.
// Call Validate first; unknown values fall back to the defaults.
func (c *Config) FormatterOptions() formatter.Options {
	escaping, _ := formatter.ParseEscaping(c.Escaping)
	return formatter.Options{Escaping: escaping}
}

// KeyRules converts the config into key rewriting rules. An unknown style
// falls back to keeping keys as written.
func (c *Config) KeyRules() transform.Rules {
	style, _ := transform.ParseKeyStyle(c.Keys.Style)
	return transform.Rules{Style: style, Mappings: c.Keys.Mappings}
}

// Overrides carries values given on the command line. Empty strings and nil
// pointers mean "not set" so the config file value survives.
type Overrides struct {
	Escaping        string
	KeyStyle        string
	TrailingNewline *bool
	Debug           bool
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI > config file > defaults
func LoadConfigWithCLI(configPath string, cli Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cli.Escaping != "" {
		cfg.Escaping = cli.Escaping
	}
	if cli.KeyStyle != "" {
		cfg.Keys.Style = cli.KeyStyle
	}
	if cli.TrailingNewline != nil {
		cfg.Output.TrailingNewline = *cli.TrailingNewline
	}
	if cli.Debug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
