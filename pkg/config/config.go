package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the image distributor
type Config struct {
	// Source and target paths
	Paths PathsConfig `yaml:"paths" json:"paths"`

	// Batch sizing
	Batch BatchConfig `yaml:"batch" json:"batch"`

	// Copy retry behaviour
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// PathsConfig holds the filesystem locations the engine works against
type PathsConfig struct {
	SourceDir     string `yaml:"source_dir" json:"source_dir"`
	TargetDir     string `yaml:"target_dir" json:"target_dir"`
	LocationsFile string `yaml:"locations_file" json:"locations_file"`
	StateFile     string `yaml:"state_file" json:"state_file"`
}

// BatchConfig holds batch sizing configuration
type BatchConfig struct {
	BatchSize       int `yaml:"batch_size" json:"batch_size"`
	ImagesPerFolder int `yaml:"images_per_folder" json:"images_per_folder"`
}

// RetryConfig holds retry configuration for individual file copies
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	RetryDelay  time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			StateFile: "state.json",
		},
		Batch: BatchConfig{
			BatchSize:       20,
			ImagesPerFolder: 6,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			RetryDelay:  500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if sourceDir := os.Getenv("SOURCE_DIR"); sourceDir != "" {
		c.Paths.SourceDir = sourceDir
	}
	if targetDir := os.Getenv("TARGET_DIR"); targetDir != "" {
		c.Paths.TargetDir = targetDir
	}
	if locations := os.Getenv("LOCATIONS_JSON"); locations != "" {
		c.Paths.LocationsFile = locations
	}
	if stateFile := os.Getenv("STATE_FILE"); stateFile != "" {
		c.Paths.StateFile = stateFile
	}

	if batchSize := os.Getenv("BATCH_SIZE"); batchSize != "" {
		var val int
		fmt.Sscanf(batchSize, "%d", &val)
		if val > 0 {
			c.Batch.BatchSize = val
		}
	}
	if perFolder := os.Getenv("IMAGES_PER_FOLDER"); perFolder != "" {
		var val int
		fmt.Sscanf(perFolder, "%d", &val)
		if val > 0 {
			c.Batch.ImagesPerFolder = val
		}
	}

	if logLevel := os.Getenv("LOCPACK_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		".locpack.yaml",
		".locpack.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "locpack", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "locpack", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".locpack.yaml"),
		filepath.Join(os.Getenv("HOME"), ".locpack.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Validate required paths
	if c.Paths.SourceDir == "" {
		errs = append(errs, errors.New("source directory is required"))
	}
	if c.Paths.TargetDir == "" {
		errs = append(errs, errors.New("target directory is required"))
	}
	if c.Paths.LocationsFile == "" {
		errs = append(errs, errors.New("locations file is required"))
	}
	if c.Paths.StateFile == "" {
		errs = append(errs, errors.New("state file is required"))
	}

	// Validate batch sizing
	if c.Batch.BatchSize <= 0 {
		errs = append(errs, errors.New("batch size must be positive"))
	}
	if c.Batch.ImagesPerFolder <= 0 {
		errs = append(errs, errors.New("images per folder must be positive"))
	}

	// Validate retry settings
	if c.Retry.MaxAttempts <= 0 {
		errs = append(errs, errors.New("retry max attempts must be positive"))
	}

	// Validate logging
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// PromptMissing interactively asks for required paths that are still unset.
// Only runs when stdin is a terminal; in non-interactive contexts missing
// values are left for Validate to reject.
func (c *Config) PromptMissing() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}

	reader := bufio.NewReader(os.Stdin)

	prompts := []struct {
		value  *string
		prompt string
	}{
		{&c.Paths.SourceDir, "Path to the source directory containing original folders"},
		{&c.Paths.TargetDir, "Path to the target directory for new folders"},
		{&c.Paths.LocationsFile, "Path to the locations JSON file"},
	}

	for _, p := range prompts {
		for *p.value == "" {
			fmt.Printf("%s: ", p.prompt)
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			line = strings.TrimSpace(line)
			if line == "" {
				fmt.Println("This field is required.")
				continue
			}
			*p.value = line
		}
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if sourceDir, ok := flags["source"].(string); ok && sourceDir != "" {
		c.Paths.SourceDir = sourceDir
	}
	if targetDir, ok := flags["target"].(string); ok && targetDir != "" {
		c.Paths.TargetDir = targetDir
	}
	if locations, ok := flags["locations"].(string); ok && locations != "" {
		c.Paths.LocationsFile = locations
	}
	if stateFile, ok := flags["state"].(string); ok && stateFile != "" {
		c.Paths.StateFile = stateFile
	}
	if batchSize, ok := flags["batch-size"].(int); ok && batchSize > 0 {
		c.Batch.BatchSize = batchSize
	}
	if perFolder, ok := flags["images-per-folder"].(int); ok && perFolder > 0 {
		c.Batch.ImagesPerFolder = perFolder
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Resolve loads configuration from the ambient sources without
// prompting or validating: defaults, then the config file, then .env
// files and environment variables. Every command resolves through this
// so read-only commands see the same values a run would use.
func Resolve(configPath string) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".locpack.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return config, nil
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	config, err := Resolve(configPath)
	if err != nil {
		return nil, err
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Ask for anything required that is still missing
	if err := config.PromptMissing(); err != nil {
		return nil, err
	}

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
