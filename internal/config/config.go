// Package config loads the bot's configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/recall/internal/guard"
	"gopkg.in/yaml.v3"
)

// Config is the structured input required to start the bot.
type Config struct {
	// BotName is the display name the bot answers to.
	BotName string `json:"bot_name" yaml:"bot_name"`

	// DataDir holds one SQLite database per group.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Group is the default group identifier for local sessions.
	Group string `json:"group" yaml:"group"`

	// Guard gates inbound channels and message size.
	Guard guard.Policy `json:"guard" yaml:"guard"`

	// Verbose enables debug-level logging.
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// ValidationResult is the outcome of a config linting pass.
type ValidationResult struct {
	Valid    bool
	Warnings []string
	Errors   []string
}

// Default returns a runnable local configuration rooted at dir.
func Default(dir string) Config {
	return Config{
		BotName: "recall",
		DataDir: filepath.Join(dir, "data"),
		Group:   "local",
		Guard:   guard.DefaultPolicy,
	}
}

// Load reads a configuration file (JSON or YAML).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal YAML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s (use .json or .yaml)", ext)
	}

	return &cfg, nil
}

// Validate checks the Config for completeness.
func (c Config) Validate() ValidationResult {
	res := ValidationResult{
		Valid:    true,
		Warnings: []string{},
		Errors:   []string{},
	}

	if c.BotName == "" {
		res.Valid = false
		res.Errors = append(res.Errors, "bot_name is required")
	}
	if c.DataDir == "" {
		res.Valid = false
		res.Errors = append(res.Errors, "data_dir is required")
	}
	if c.Group == "" {
		res.Valid = false
		res.Errors = append(res.Errors, "group is required")
	}
	if len(c.Guard.ChannelGlobs) == 0 {
		res.Warnings = append(res.Warnings, "no channel globs configured; the bot will listen everywhere")
	}

	return res
}
