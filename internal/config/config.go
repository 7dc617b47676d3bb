package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// Global configuration instance
	globalConfig *Config
	configMutex  sync.RWMutex
)

// Get returns the global configuration instance
// If the configuration has not been initialized, it will return an error
func Get() (*Config, error) {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}

	return globalConfig, nil
}

// Set sets the global configuration instance
func Set(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()

	globalConfig = cfg
}

// Config represents the complete application configuration
type Config struct {
	DefaultLLMProvider string // Which provider to use by default (openai, claude, or gemini)
	OpenAI             OpenAIConfig
	Claude             ClaudeConfig
	Gemini             GeminiConfig
	Generation         GenerationConfig
	Sanitizer          SanitizerConfig
	Database           DatabaseConfig
	Logging            LoggingConfig
	Export             ExportConfig
	configDir          string // Internal: Directory where config was loaded from
}

// GenerationConfig controls the post generation workflow
type GenerationConfig struct {
	DefaultPlatform string        // Platform used when none is given on the command line
	DefaultCount    int           // Number of posts generated by default
	MaxCount        int           // Upper bound on posts per generation request
	HistoryLimit    int           // Maximum number of stored posts fed back into the prompt as style examples
	ModelCacheTTL   time.Duration // How long discovered model lists stay fresh
}

// SanitizerConfig holds text sanitization configuration
type SanitizerConfig struct {
	// ExtraMappings are additional character mappings appended to the
	// built-in table, given as "source=target" pairs separated by ';'.
	// Later pairs override earlier ones and the defaults.
	ExtraMappings []string
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey  string // OpenAI API key
	BaseURL string // OpenAI API base URL

	Model string // Chat model to use

	Timeout    time.Duration // Request timeout
	MaxRetries int           // Maximum number of retries on failure

	MaxTokens   int     // Max tokens to generate for responses
	Temperature float64 // Default temperature for generation

	RequestsPerMinute int // Rate limiting
	BurstLimit        int // Rate limiting
}

// ClaudeConfig holds Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey     string // Claude API key
	BaseURL    string // Claude API base URL
	APIVersion string // API version to use

	Model string // Claude model to use

	Timeout    time.Duration // Request timeout
	MaxRetries int           // Maximum number of retries on failure

	MaxTokens   int     // Max tokens to generate for Claude responses
	Temperature float64 // Default temperature for Claude

	RequestsPerMinute int // Rate limiting
	BurstLimit        int // Rate limiting
}

// GeminiConfig holds Google Gemini API configuration
type GeminiConfig struct {
	APIKey     string // Gemini API key
	BaseURL    string // Gemini API base URL
	APIVersion string // API version (v1 or v1beta)

	Model string // Gemini model to use

	Timeout    time.Duration // Request timeout
	MaxRetries int           // Maximum number of retries on failure

	MaxTokens   int     // Max tokens to generate for Gemini responses
	Temperature float64 // Default temperature for Gemini

	RequestsPerMinute int // Rate limiting
	BurstLimit        int // Rate limiting
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Path            string        // Path to the SQLite database file
	JournalMode     string        // Journal mode (WAL recommended)
	SynchronousMode string        // Synchronous mode
	BusyTimeout     int           // Busy timeout in milliseconds
	CacheSize       int           // Cache size in KiB
	ForeignKeys     bool          // Whether to enforce foreign key constraints
	ConnMaxLife     time.Duration // Maximum connection lifetime
	QueryTimeout    time.Duration // Query timeout
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string // debug, info, warn, error
	Format     string // text or json
	Output     string // stdout, stderr, or file path
	AddSource  bool   // Include source code position in logs
	TimeFormat string // Time format for logs (empty uses RFC3339)
}

// ExportConfig controls CSV export behaviour
type ExportConfig struct {
	Dir string // Default directory for exported CSV files
}

// New returns a new empty Config
func New() *Config {
	return &Config{}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return fmt.Errorf("LLM config: %w", err)
	}

	if err := c.validateGeneration(); err != nil {
		return fmt.Errorf("generation config: %w", err)
	}

	if err := c.validateDatabase(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if err := c.validateLogging(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ParseLogLevel parses a log level string to a slog.Level
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none":
		// Set to a very high level that won't be triggered
		return slog.Level(9999)
	default:
		return slog.LevelInfo
	}
}

func (c *Config) validateLLM() error {
	switch c.DefaultLLMProvider {
	case "openai", "claude", "gemini":
	case "":
		return fmt.Errorf("default provider cannot be empty")
	default:
		return fmt.Errorf("unknown default provider: %s", c.DefaultLLMProvider)
	}

	if c.Gemini.APIKey != "" {
		if c.Gemini.APIVersion != "v1" && c.Gemini.APIVersion != "v1beta" {
			return fmt.Errorf("invalid Gemini API version: %s (must be v1 or v1beta)", c.Gemini.APIVersion)
		}
	}

	return nil
}

func (c *Config) validateGeneration() error {
	if c.Generation.DefaultCount <= 0 {
		return fmt.Errorf("default count must be positive")
	}

	if c.Generation.MaxCount <= 0 {
		return fmt.Errorf("max count must be positive")
	}

	if c.Generation.DefaultCount > c.Generation.MaxCount {
		return fmt.Errorf("default count cannot exceed max count")
	}

	if c.Generation.HistoryLimit < 0 {
		return fmt.Errorf("history limit cannot be negative")
	}

	if c.Generation.ModelCacheTTL <= 0 {
		return fmt.Errorf("model cache TTL must be positive")
	}

	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	// Create the directory if it doesn't exist
	dir := filepath.Dir(c.Database.Path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for database: %w", err)
		}
	}

	if c.Database.BusyTimeout <= 0 {
		return fmt.Errorf("busy timeout must be positive")
	}

	if c.Database.ConnMaxLife <= 0 {
		return fmt.Errorf("connection max life must be positive")
	}

	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("query timeout must be positive")
	}

	return nil
}

func (c *Config) validateLogging() error {
	level := strings.ToLower(c.Logging.Level)
	if level != "debug" && level != "info" && level != "warn" && level != "error" && level != "none" {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	format := strings.ToLower(c.Logging.Format)
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// getEnvString returns a string from the environment variable
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an int from the environment variable
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool returns a bool from the environment variable
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration returns a time.Duration from the environment variable
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvFloat returns a float64 from the environment variable
func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
