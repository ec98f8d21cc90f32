// Package config loads process settings from an optional YAML file and
// AGT_* / ANTHROPIC_* environment variables. Environment values win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no path is given and AGT_CONFIG is unset.
const DefaultPath = ".agent/config.yaml"

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	Output string `yaml:"output"` // stderr, stdout, or a file path
}

type Config struct {
	// APIKey only ever comes from ANTHROPIC_API_KEY.
	APIKey string `yaml:"-"`

	Model        string    `yaml:"model"` // empty selects the provider default
	MaxTokens    int64     `yaml:"max_tokens"`
	MaxSteps     int       `yaml:"max_steps"`    // 0 = unlimited
	TokenBudget  int       `yaml:"token_budget"` // 0 = send the full conversation
	SystemPrompt string    `yaml:"system_prompt"`
	Log          LogConfig `yaml:"log"`
}

func Defaults() *Config {
	return &Config{
		MaxTokens: 4096,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads the YAML file at path over Defaults, applies env overrides and
// validates the result. An empty path means AGT_CONFIG, then DefaultPath; a
// missing file is only tolerated for DefaultPath.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		if path = os.Getenv("AGT_CONFIG"); path != "" {
			explicit = true
		} else {
			path = DefaultPath
		}
	}

	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides maps environment variables onto cfg. Malformed numbers
// are reported together.
func ApplyEnvOverrides(cfg *Config) error {
	cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	if v := os.Getenv("ANTHROPIC_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("AGT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("AGT_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("AGT_LOG_OUTPUT"); v != "" {
		cfg.Log.Output = v
	}

	var errs []error
	if v := os.Getenv("AGT_MAX_TOKENS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid AGT_MAX_TOKENS %q: %w", v, err))
		} else {
			cfg.MaxTokens = n
		}
	}
	if v := os.Getenv("AGT_MAX_STEPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid AGT_MAX_STEPS %q: %w", v, err))
		} else {
			cfg.MaxSteps = n
		}
	}
	if v := os.Getenv("AGT_TOKEN_BUDGET"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid AGT_TOKEN_BUDGET %q: %w", v, err))
		} else {
			cfg.TokenBudget = n
		}
	}
	return errors.Join(errs...)
}

// ValidationError lists every problem found in a Config.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

func (v *ValidationError) add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate returns a *ValidationError when cfg is unusable.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	if cfg.APIKey == "" {
		ve.add("ANTHROPIC_API_KEY is not set")
	}
	if cfg.MaxTokens <= 0 {
		ve.add("max_tokens must be > 0")
	}
	if cfg.MaxSteps < 0 {
		ve.add("max_steps must be >= 0")
	}
	if cfg.TokenBudget < 0 {
		ve.add("token_budget must be >= 0")
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		ve.add("log.level %q is not one of debug, info, warn, error", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		ve.add("log.format %q is not one of text, json", cfg.Log.Format)
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
