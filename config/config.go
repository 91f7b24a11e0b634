package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Fetcher   FetcherConfig
	Optimizer OptimizerConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Bills     BillsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AIConfig holds AI provider configuration
type AIConfig struct {
	Provider    string  `mapstructure:"provider"` // "openai" or "ollama"
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
}

// FetcherConfig holds recipe page fetcher configuration
type FetcherConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	UserAgent         string        `mapstructure:"user_agent"`
}

// OptimizerConfig holds shopping optimizer configuration
type OptimizerConfig struct {
	TravelCostPerStore float64 `mapstructure:"travel_cost_per_store"`
	DebugLogging       bool    `mapstructure:"debug_logging"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
	Burst int `mapstructure:"burst"`
}

// BillsConfig holds bill persistence configuration
type BillsConfig struct {
	Dir      string  `mapstructure:"dir"`
	Currency string  `mapstructure:"currency"`
	TaxRate  float64 `mapstructure:"tax_rate"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file first so viper's AutomaticEnv picks the values up
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shoplist/")

	// Environment variable settings
	v.SetEnvPrefix("SHOPLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)
	bindEnvVars(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads KEY=VALUE pairs from a .env file in the working
// directory. Existing environment variables are not overridden.
func loadEnvFile() error {
	file, err := os.Open(".env")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if _, exists := os.LookupEnv(key); !exists {
			os.Setenv(key, value)
		}
	}
	return scanner.Err()
}

// bindEnvVars binds environment variables to config keys. AutomaticEnv only
// resolves keys viper already knows about, so keys without a default have to
// be bound here or SHOPLIST_AI_API_KEY and friends are silently ignored.
func bindEnvVars(v *viper.Viper) {
	// AI credentials carry no default on purpose
	v.BindEnv("ai.api_key")
	v.BindEnv("ai.base_url")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// AI defaults
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.max_tokens", 2000)
	v.SetDefault("ai.temperature", 0.1)

	// Fetcher defaults
	v.SetDefault("fetcher.timeout", "30s")
	v.SetDefault("fetcher.requests_per_second", 1.0)
	v.SetDefault("fetcher.user_agent", "ShoplistBot/1.0")

	// Optimizer defaults
	v.SetDefault("optimizer.travel_cost_per_store", 5.0)
	v.SetDefault("optimizer.debug_logging", false)

	// Cache defaults
	v.SetDefault("cache.ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 10)
	v.SetDefault("ratelimit.burst", 20)

	// Bill defaults
	v.SetDefault("bills.dir", "generated_bills")
	v.SetDefault("bills.currency", "AUD")
	v.SetDefault("bills.tax_rate", 0.10)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.AI.Provider {
	case "openai":
		if config.AI.APIKey == "" {
			return fmt.Errorf("OpenAI API key is required (set SHOPLIST_AI_API_KEY)")
		}
	case "ollama":
		if config.AI.BaseURL == "" {
			return fmt.Errorf("Ollama base URL is required (set SHOPLIST_AI_BASE_URL)")
		}
	default:
		return fmt.Errorf("AI provider must be 'openai' or 'ollama', got: %s", config.AI.Provider)
	}

	if config.Optimizer.TravelCostPerStore < 0 {
		return fmt.Errorf("travel cost per store must not be negative, got: %f", config.Optimizer.TravelCostPerStore)
	}

	if config.Bills.TaxRate < 0 || config.Bills.TaxRate >= 1 {
		return fmt.Errorf("tax rate must be in [0, 1), got: %f", config.Bills.TaxRate)
	}

	return nil
}
