package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fenilsonani/dupescan/internal/security"
	"github.com/fenilsonani/dupescan/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Workers         int              `yaml:"workers"`
	HashBufferSize  string           `yaml:"hash_buffer_size"` // e.g., "64KB"
	Extensions      []string         `yaml:"extensions"`
	ExcludePatterns []string         `yaml:"exclude_patterns"`
	MaxFileSize     string           `yaml:"max_file_size"` // e.g., "2GB", empty for no limit
	Similarity      SimilarityConfig `yaml:"similarity"`
	Extraction      ExtractionConfig `yaml:"extraction"`
	Output          string           `yaml:"output"`
	LogLevel        string           `yaml:"log_level"`
}

// SimilarityConfig bounds pairwise text comparison
type SimilarityConfig struct {
	MaxTextChars  int     `yaml:"max_text_chars"`
	MinSimilarity float64 `yaml:"min_similarity"`
}

// ExtractionConfig controls text extraction
type ExtractionConfig struct {
	Timeout      string `yaml:"timeout"` // e.g., "30s"
	MaxOpen      int    `yaml:"max_open"`
	SniffContent bool   `yaml:"sniff_content"`
}

// Output formats accepted by the reporter
var OutputFormats = []string{"summary", "table", "json", "yaml"}

// Load loads configuration from a file
func Load(configPath string) (*Config, error) {
	// If config doesn't exist, return default config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Fields absent from the file keep their defaults
	config := GetDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}

	if _, err := c.HashBufferBytes(); err != nil {
		return err
	}
	if _, err := c.MaxFileSizeBytes(); err != nil {
		return err
	}

	for _, pattern := range c.ExcludePatterns {
		if err := security.ValidateGlobPattern(pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	if c.Similarity.MaxTextChars < 0 {
		return fmt.Errorf("max text chars must be >= 0")
	}
	if c.Similarity.MinSimilarity < 0 || c.Similarity.MinSimilarity > 1 {
		return fmt.Errorf("min similarity must be between 0 and 1, got %v", c.Similarity.MinSimilarity)
	}

	if _, err := c.ExtractTimeout(); err != nil {
		return err
	}
	if c.Extraction.MaxOpen < 0 {
		return fmt.Errorf("max open extractions must be >= 0")
	}

	if c.Output != "" && !isOutputFormat(c.Output) {
		return fmt.Errorf("unknown output format %q (want one of %s)", c.Output, strings.Join(OutputFormats, ", "))
	}

	return nil
}

// EffectiveWorkers returns the worker count to use; zero means one per CPU
func (c *Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return max(runtime.NumCPU(), 1)
}

// EffectiveMaxOpen returns the extraction concurrency limit; zero follows
// the worker count
func (c *Config) EffectiveMaxOpen() int {
	if c.Extraction.MaxOpen > 0 {
		return c.Extraction.MaxOpen
	}
	return c.EffectiveWorkers()
}

// HashBufferBytes parses HashBufferSize. Empty selects the default.
func (c *Config) HashBufferBytes() (int, error) {
	n, err := utils.ParseSize(c.HashBufferSize)
	if err != nil {
		return 0, fmt.Errorf("invalid hash buffer size: %w", err)
	}
	if n == 0 {
		return utils.DefaultHashBufferSize, nil
	}
	return int(n), nil
}

// MaxFileSizeBytes parses MaxFileSize. Zero means no limit.
func (c *Config) MaxFileSizeBytes() (int64, error) {
	n, err := utils.ParseSize(c.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("invalid max file size: %w", err)
	}
	return n, nil
}

// ExtractTimeout parses Extraction.Timeout. Empty selects the default;
// "0" disables the timeout.
func (c *Config) ExtractTimeout() (time.Duration, error) {
	s := strings.TrimSpace(c.Extraction.Timeout)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid extraction timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("extraction timeout must be >= 0")
	}
	if d == 0 {
		return -1, nil
	}
	return d, nil
}

// GetConfigDir returns the directory holding dupescan's config file,
// honouring XDG_CONFIG_HOME
func GetConfigDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "dupescan"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "dupescan"), nil
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// EnsureConfigExists creates a default config file if it doesn't exist
func EnsureConfigExists(configPath string) (created bool, err error) {
	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}

	if err := Save(GetDefault(), configPath); err != nil {
		return false, err
	}
	return true, nil
}

func isOutputFormat(s string) bool {
	for _, f := range OutputFormats {
		if s == f {
			return true
		}
	}
	return false
}
