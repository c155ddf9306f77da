// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/statement-import/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. STMT_LOG_LEVEL.
const EnvPrefix = "STMT"

// Config represents the complete application configuration
type Config struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	AI         AIConfig         `mapstructure:"ai" yaml:"ai"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Categories CategoriesConfig `mapstructure:"categories" yaml:"categories"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Import     ImportConfig     `mapstructure:"import" yaml:"import"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AIConfig controls the model-assisted categorization stage.
type AIConfig struct {
	Enabled           bool           `mapstructure:"enabled" yaml:"enabled"`
	PreferredProvider string         `mapstructure:"preferred_provider" yaml:"preferred_provider"`
	BatchSize         int            `mapstructure:"batch_size" yaml:"batch_size"`
	CacheTTLHours     int            `mapstructure:"cache_ttl_hours" yaml:"cache_ttl_hours"`
	TimeoutSeconds    int            `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	RequestsPerMinute int            `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	Gemini            ProviderConfig `mapstructure:"gemini" yaml:"gemini"`
	OpenAI            ProviderConfig `mapstructure:"openai" yaml:"openai"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	Model   string `mapstructure:"model" yaml:"model"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
}

// CacheTTL is the lifetime of a cached model answer.
func (c AIConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// Timeout bounds a single provider call.
func (c AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type CategoriesConfig struct {
	// RulesFile is the keyword rule YAML; empty means the built-in rules.
	RulesFile string `mapstructure:"rules_file" yaml:"rules_file"`
}

type ServerConfig struct {
	Addr        string `mapstructure:"addr" yaml:"addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

type ImportConfig struct {
	DescriptionMaxLen int `mapstructure:"description_max_len" yaml:"description_max_len"`
}

var validProviders = map[string]bool{"": true, "gemini": true, "openai": true}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return LoadConfig("")
}

// LoadConfig is InitializeConfig with an explicit config file. An empty
// path searches the default locations.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.statement-import")
		v.AddConfigPath(".statement-import")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			if configFile != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
			Logger.Warnf("Error reading config file %s: %v", v.ConfigFileUsed(), err)
		}
	}

	// 5. API keys also come from the provider's usual variable
	if err := v.BindEnv("ai.gemini.api_key", EnvPrefix+"_AI_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}
	if err := v.BindEnv("ai.openai.api_key", EnvPrefix+"_AI_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.AI.PreferredProvider = strings.ToLower(strings.TrimSpace(config.AI.PreferredProvider))

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.preferred_provider", "gemini")
	v.SetDefault("ai.batch_size", 100)
	v.SetDefault("ai.cache_ttl_hours", 168)
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.requests_per_minute", 10)
	v.SetDefault("ai.gemini.api_key", "")
	v.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	v.SetDefault("ai.gemini.base_url", "")
	v.SetDefault("ai.openai.api_key", "")
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.openai.base_url", "")

	v.SetDefault("database.path", "statement-import.db")

	v.SetDefault("categories.rules_file", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 10)

	v.SetDefault("import.description_max_len", 255)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if !validProviders[config.AI.PreferredProvider] {
		return fmt.Errorf("ai.preferred_provider must be 'gemini' or 'openai', got: %s", config.AI.PreferredProvider)
	}

	if config.AI.BatchSize < 1 || config.AI.BatchSize > 500 {
		return fmt.Errorf("ai.batch_size must be between 1 and 500, got: %d", config.AI.BatchSize)
	}

	if config.AI.CacheTTLHours < 1 {
		return fmt.Errorf("ai.cache_ttl_hours must be positive, got: %d", config.AI.CacheTTLHours)
	}

	if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
		return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
	}

	// Zero disables throttling.
	if config.AI.RequestsPerMinute < 0 || config.AI.RequestsPerMinute > 1000 {
		return fmt.Errorf("ai.requests_per_minute must be between 0 and 1000, got: %d", config.AI.RequestsPerMinute)
	}

	if strings.TrimSpace(config.Database.Path) == "" {
		return fmt.Errorf("database.path must not be empty")
	}

	if config.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be positive, got: %d", config.Server.MaxUploadMB)
	}

	if config.Import.DescriptionMaxLen < 1 {
		return fmt.Errorf("import.description_max_len must be positive, got: %d", config.Import.DescriptionMaxLen)
	}

	return nil
}

// ConfigureLoggingFromConfig returns a logrus logger for the log section.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	return logging.NewLogrus(config.Log.Level, config.Log.Format)
}
