package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadFromEnv loads configuration from environment variables
// Parameters:
// - configDir: Directory containing config files (or empty for default)
// - configFilePath: Path to .env file (or empty for default)
func LoadFromEnv(configDir string, configFilePath string) (*Config, error) {
	cfg := New()

	// If configDir is empty, use the default
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".postforge")

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	cfg.configDir = configDir

	// Default database and log paths live in the config directory
	defaultDBPath := filepath.Join(configDir, "postforge.db")
	defaultLogPath := filepath.Join(configDir, "postforge.log")

	// Use provided config file path or default
	if configFilePath == "" {
		configFilePath = filepath.Join(configDir, ".env")
	}

	// Check if ENV_FILE_PATH is set to load from a custom .env file
	envFilePath := getEnvString("ENV_FILE_PATH", "")
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			return nil, fmt.Errorf("failed to load env file from %s: %w", envFilePath, err)
		}
	} else {
		// Try to load from config directory first, then the current directory
		if err := godotenv.Load(configFilePath); err != nil {
			_ = godotenv.Load() // Ignore errors if file doesn't exist
		}
	}

	cfg.DefaultLLMProvider = getEnvString("POSTFORGE_LLM_DEFAULT_PROVIDER", "openai")

	cfg.OpenAI = OpenAIConfig{
		APIKey:            getEnvString("POSTFORGE_OPENAI_API_KEY", ""),
		BaseURL:           getEnvString("POSTFORGE_OPENAI_BASE_URL", "https://api.openai.com"),
		Model:             getEnvString("POSTFORGE_OPENAI_MODEL", "gpt-4o-mini"),
		Timeout:           getEnvDuration("POSTFORGE_OPENAI_TIMEOUT", 60*time.Second),
		MaxRetries:        getEnvInt("POSTFORGE_OPENAI_MAX_RETRIES", 3),
		MaxTokens:         getEnvInt("POSTFORGE_OPENAI_MAX_TOKENS", 2000),
		Temperature:       getEnvFloat("POSTFORGE_OPENAI_TEMPERATURE", 0.7),
		RequestsPerMinute: getEnvInt("POSTFORGE_OPENAI_REQUESTS_PER_MINUTE", 60),
		BurstLimit:        getEnvInt("POSTFORGE_OPENAI_BURST_LIMIT", 5),
	}

	cfg.Claude = ClaudeConfig{
		APIKey:            getEnvString("POSTFORGE_CLAUDE_API_KEY", ""),
		BaseURL:           getEnvString("POSTFORGE_CLAUDE_BASE_URL", "https://api.anthropic.com"),
		APIVersion:        getEnvString("POSTFORGE_CLAUDE_API_VERSION", "2023-06-01"),
		Model:             getEnvString("POSTFORGE_CLAUDE_MODEL", "claude-3-5-sonnet-20241022"),
		Timeout:           getEnvDuration("POSTFORGE_CLAUDE_TIMEOUT", 60*time.Second),
		MaxRetries:        getEnvInt("POSTFORGE_CLAUDE_MAX_RETRIES", 3),
		MaxTokens:         getEnvInt("POSTFORGE_CLAUDE_MAX_TOKENS", 2000),
		Temperature:       getEnvFloat("POSTFORGE_CLAUDE_TEMPERATURE", 0.7),
		RequestsPerMinute: getEnvInt("POSTFORGE_CLAUDE_REQUESTS_PER_MINUTE", 60),
		BurstLimit:        getEnvInt("POSTFORGE_CLAUDE_BURST_LIMIT", 5),
	}

	cfg.Gemini = GeminiConfig{
		APIKey:            getEnvString("POSTFORGE_GEMINI_API_KEY", ""),
		BaseURL:           getEnvString("POSTFORGE_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		APIVersion:        getEnvString("POSTFORGE_GEMINI_API_VERSION", "v1beta"),
		Model:             getEnvString("POSTFORGE_GEMINI_MODEL", "gemini-1.5-pro"),
		Timeout:           getEnvDuration("POSTFORGE_GEMINI_TIMEOUT", 60*time.Second),
		MaxRetries:        getEnvInt("POSTFORGE_GEMINI_MAX_RETRIES", 3),
		MaxTokens:         getEnvInt("POSTFORGE_GEMINI_MAX_TOKENS", 2000),
		Temperature:       getEnvFloat("POSTFORGE_GEMINI_TEMPERATURE", 0.7),
		RequestsPerMinute: getEnvInt("POSTFORGE_GEMINI_REQUESTS_PER_MINUTE", 60),
		BurstLimit:        getEnvInt("POSTFORGE_GEMINI_BURST_LIMIT", 5),
	}

	cfg.Generation = GenerationConfig{
		DefaultPlatform: getEnvString("POSTFORGE_GENERATION_DEFAULT_PLATFORM", "X"),
		DefaultCount:    getEnvInt("POSTFORGE_GENERATION_DEFAULT_COUNT", 3),
		MaxCount:        getEnvInt("POSTFORGE_GENERATION_MAX_COUNT", 50),
		HistoryLimit:    getEnvInt("POSTFORGE_GENERATION_HISTORY_LIMIT", 10),
		ModelCacheTTL:   getEnvDuration("POSTFORGE_GENERATION_MODEL_CACHE_TTL", time.Hour),
	}

	// Extra sanitizer mappings: "source=target;source=target"
	var extraMappings []string
	for _, pair := range strings.Split(getEnvString("POSTFORGE_SANITIZER_EXTRA_MAPPINGS", ""), ";") {
		pair = strings.TrimSpace(pair)
		if pair != "" && strings.Contains(pair, "=") {
			extraMappings = append(extraMappings, pair)
		}
	}
	cfg.Sanitizer = SanitizerConfig{ExtraMappings: extraMappings}

	cfg.Database = DatabaseConfig{
		Path:            getEnvString("POSTFORGE_DB_PATH", defaultDBPath),
		BusyTimeout:     getEnvInt("POSTFORGE_DB_BUSY_TIMEOUT", 5000),
		JournalMode:     getEnvString("POSTFORGE_DB_JOURNAL_MODE", "WAL"),
		SynchronousMode: getEnvString("POSTFORGE_DB_SYNCHRONOUS_MODE", "NORMAL"),
		CacheSize:       getEnvInt("POSTFORGE_DB_CACHE_SIZE", -64000), // ~64MB
		ForeignKeys:     getEnvBool("POSTFORGE_DB_FOREIGN_KEYS", true),
		ConnMaxLife:     getEnvDuration("POSTFORGE_DB_CONN_MAX_LIFE", 5*time.Minute),
		QueryTimeout:    getEnvDuration("POSTFORGE_DB_QUERY_TIMEOUT", 30*time.Second),
	}

	cfg.Logging = LoggingConfig{
		Level:      getEnvString("POSTFORGE_LOG_LEVEL", "info"),
		Format:     getEnvString("POSTFORGE_LOG_FORMAT", "text"),
		Output:     getEnvString("POSTFORGE_LOG_OUTPUT", defaultLogPath),
		AddSource:  getEnvBool("POSTFORGE_LOG_ADD_SOURCE", false),
		TimeFormat: getEnvString("POSTFORGE_LOG_TIME_FORMAT", time.RFC3339),
	}

	cfg.Export = ExportConfig{
		Dir: getEnvString("POSTFORGE_EXPORT_DIR", "."),
	}

	return cfg, cfg.Validate()
}

// ConfigDir returns the directory the configuration was loaded from
func (c *Config) ConfigDir() string {
	return c.configDir
}
