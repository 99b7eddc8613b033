package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvHome        = "QBC_HOME"
	EnvConverter   = "QBC_CONVERTER"
	EnvMaxWorkers  = "QBC_MAX_WORKERS"
	EnvLogLevel    = "QBC_LOG_LEVEL"
	EnvTaskTimeout = "QBC_TASK_TIMEOUT"
)

// DefaultConverter is the executable used when none is configured.
const DefaultConverter = "quarto"

// HistoryConfig represents run history configuration
type HistoryConfig struct {
	// Enabled records every batch in the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the SQLite history database
	DBPath string `yaml:"db_path"`
}

// Config represents qbc configuration options
type Config struct {
	// MaxWorkers is the maximum number of concurrent conversions (0 = number of CPUs)
	MaxWorkers int `yaml:"max_workers"`

	// Converter is the converter executable name or path
	Converter string `yaml:"converter"`

	// TaskTimeout bounds a single conversion (0 = no timeout)
	TaskTimeout time.Duration `yaml:"task_timeout"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written
	LogDir string `yaml:"log_dir"`

	// History contains run history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values.
// State paths live under HomeDir().
func DefaultConfig() *Config {
	home := HomeDir()
	return &Config{
		MaxWorkers:  0,
		Converter:   DefaultConverter,
		TaskTimeout: 0,
		LogLevel:    "info",
		LogDir:      filepath.Join(home, "logs"),
		History: HistoryConfig{
			Enabled: true,
			DBPath:  filepath.Join(home, "history.db"),
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are written as strings ("90s", "5m") in the file.
	type yamlConfig struct {
		MaxWorkers  int    `yaml:"max_workers"`
		Converter   string `yaml:"converter"`
		TaskTimeout string `yaml:"task_timeout"`
		LogLevel    string `yaml:"log_level"`
		LogDir      string `yaml:"log_dir"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.MaxWorkers != 0 {
		cfg.MaxWorkers = yamlCfg.MaxWorkers
	}
	if yamlCfg.Converter != "" {
		cfg.Converter = yamlCfg.Converter
	}
	if yamlCfg.TaskTimeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.TaskTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid task_timeout format %q: %w", yamlCfg.TaskTimeout, err)
		}
		cfg.TaskTimeout = timeout
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}

	// The history section merges key by key so "enabled: false" is honoured.
	var raw struct {
		History map[string]interface{} `yaml:"history"`
	}
	if err := yaml.Unmarshal(data, &raw); err == nil && raw.History != nil {
		if v, ok := raw.History["enabled"].(bool); ok {
			cfg.History.Enabled = v
		}
		if v, ok := raw.History["db_path"].(string); ok {
			cfg.History.DBPath = v
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .qbc/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, HomeDirName, "config.yaml"))
}

// ApplyEnv overrides configuration from QBC_* variables. Values come from
// the process environment first, then from the optional dotenv file at
// dotenvPath. The dotenv file never modifies the process environment.
func (c *Config) ApplyEnv(dotenvPath string) error {
	fileVars := map[string]string{}
	if dotenvPath != "" {
		if _, err := os.Stat(dotenvPath); err == nil {
			vars, err := godotenv.Read(dotenvPath)
			if err != nil {
				return fmt.Errorf("load env file %s: %w", dotenvPath, err)
			}
			fileVars = vars
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok && v != ""
	}

	if v, ok := lookup(EnvConverter); ok {
		c.Converter = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvMaxWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxWorkers, v, err)
		}
		c.MaxWorkers = n
	}
	if v, ok := lookup(EnvTaskTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTaskTimeout, v, err)
		}
		c.TaskTimeout = d
	}
	return nil
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
// This allows CLI flags to take precedence over config file settings
func (c *Config) MergeWithFlags(maxWorkers *int, timeout *time.Duration, logDir *string, logLevel *string, historyEnabled *bool) {
	if maxWorkers != nil {
		c.MaxWorkers = *maxWorkers
	}
	if timeout != nil {
		c.TaskTimeout = *timeout
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if historyEnabled != nil {
		c.History.Enabled = *historyEnabled
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if c.MaxWorkers < 0 {
		return fmt.Errorf("max_workers must be >= 0, got %d", c.MaxWorkers)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.TaskTimeout < 0 {
		return fmt.Errorf("task_timeout must be >= 0, got %v", c.TaskTimeout)
	}

	if c.Converter == "" {
		return fmt.Errorf("converter cannot be empty")
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	return nil
}
