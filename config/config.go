// Package config provides YAML configuration parsing for pulsecheck.
//
// This package enables running pulsecheck as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Service health
//	interval: 30
//	timeout: 5s
//	port: 8080
//
//	targets:
//	  - http://localhost:8000/servidor
//	  - https://${API_HOST:-api.telegram.org}/
//
//	log:
//	  level: info
//	  format: text
//	  file: /var/log/pulsecheck/pulsecheck.log
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Bounds and defaults of the configuration values.
const (
	MinInterval     = 5
	MaxInterval     = 300
	DefaultInterval = 30

	MinTimeout     = 1 * time.Second
	MaxTimeout     = 60 * time.Second
	DefaultTimeout = 5 * time.Second

	DefaultPort  = 8080
	DefaultTitle = "pulsecheck"
)

// Log levels and formats accepted in the log section.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultTargets are polled when the configuration names none.
var DefaultTargets = []string{
	"http://localhost:8000/servidor",
	"https://www.google.com/",
	"https://api.telegram.org/",
}

// Config is the root configuration structure for pulsecheck.
//
// It maps directly to the YAML configuration file structure. The json tags
// name the fields in validation errors, so they must match the yaml tags.
// Use [Load] or [Parse] to create a Config from YAML, or [Default].
type Config struct {
	// Title is shown by both presenters. Defaults to "pulsecheck".
	Title string `yaml:"title" json:"title"`

	// Port is the HTTP port of the web dashboard. Defaults to 8080.
	Port int `yaml:"port" json:"port"`

	// Interval is the number of seconds between polling passes, 5 to 300.
	// Defaults to 30.
	Interval int `yaml:"interval" json:"interval"`

	// Timeout bounds each probe. Accepts duration strings like "5s".
	// Must be between 1s and 60s. Defaults to 5s.
	Timeout Duration `yaml:"timeout" json:"timeout"`

	// Targets are the URLs to poll, in order.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	Targets []string `yaml:"targets" json:"targets"`

	// Log configures the logger.
	Log LogConfig `yaml:"log" json:"log"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error. Defaults to info.
	Level string `yaml:"level" json:"level"`

	// Format is text or json. Defaults to text.
	Format string `yaml:"format" json:"format"`

	// File, when set, sends logs to a rotating file instead of stderr.
	// Supports environment variable substitution.
	File string `yaml:"file" json:"file"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		varName := submatches[1]
		hasDefault := submatches[2] != ""

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return submatches[3]
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before validation.
// Returns an error if the file cannot be read, parsed or validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in targets and the log file path.
// Defaults are applied for unset values, then the result is validated.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.expandEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills zero values. An explicit empty target list is
// treated as unset.
func (c *Config) applyDefaults() {
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.Timeout == 0 {
		c.Timeout = Duration(DefaultTimeout)
	}
	if len(c.Targets) == 0 {
		c.Targets = append([]string(nil), DefaultTargets...)
	}
	if c.Log.Level == "" {
		c.Log.Level = LogLevelInfo
	}
	if c.Log.Format == "" {
		c.Log.Format = LogFormatText
	}
}

func (c *Config) expandEnv() error {
	for i, target := range c.Targets {
		expanded, err := expandEnvVars(target)
		if err != nil {
			return fmt.Errorf("targets[%d]: %w", i, err)
		}
		c.Targets[i] = expanded
	}

	expanded, err := expandEnvVars(c.Log.File)
	if err != nil {
		return fmt.Errorf("log.file: %w", err)
	}
	c.Log.File = expanded
	return nil
}

// Validate checks every field against its bounds.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Port,
			validation.Required,
			validation.Min(1),
			validation.Max(65535),
		),
		validation.Field(&c.Interval,
			validation.Required,
			validation.Min(MinInterval),
			validation.Max(MaxInterval),
		),
		validation.Field(&c.Timeout,
			validation.By(validateTimeout),
		),
		validation.Field(&c.Targets,
			validation.By(validateUnique),
			validation.Each(validation.Required, validation.By(validateTarget)),
		),
		validation.Field(&c.Log,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LogConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LogConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
					validation.Field(&lc.Format,
						validation.Required,
						validation.In(LogFormatText, LogFormatJSON),
					),
				)
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func validateTimeout(value interface{}) error {
	d, ok := value.(Duration)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a duration")
	}
	if d.Duration() < MinTimeout || d.Duration() > MaxTimeout {
		return validation.NewError("validation_timeout_range",
			fmt.Sprintf("must be between %s and %s", MinTimeout, MaxTimeout))
	}
	return nil
}

func validateTarget(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	if s == "" {
		return nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "scheme must be http or https")
	}
	if u.Host == "" {
		return validation.NewError("validation_missing_host", "must include a host")
	}
	return nil
}

func validateUnique(value interface{}) error {
	targets, ok := value.([]string)
	if !ok {
		return errors.New("must be a list of URLs")
	}
	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if _, exists := seen[t]; exists {
			return validation.NewError("validation_duplicate_target", fmt.Sprintf("duplicate target %q", t))
		}
		seen[t] = struct{}{}
	}
	return nil
}
