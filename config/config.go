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
	Server     ServerConfig
	Extraction ExtractionConfig
	Store      StoreConfig
	Scraper    ScraperConfig
	Cache      CacheConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	UploadDir      string   `mapstructure:"upload_dir"`
	PublicBaseURL  string   `mapstructure:"public_base_url"`
}

// ExtractionConfig holds the extraction collaborator configuration
type ExtractionConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Debug   bool          `mapstructure:"debug"`
}

// StoreConfig holds vendor persistence configuration
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// ScraperConfig holds the website pricing lookup configuration
type ScraperConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxItems int           `mapstructure:"max_items"`
}

// CacheConfig holds search cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if present (development convenience)
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/storytellerz/")

	// Environment variable settings
	v.SetEnvPrefix("STORYTELLERZ")
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

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

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("server.upload_dir", "uploads")
	v.SetDefault("server.public_base_url", "http://localhost:8080")

	// Extraction defaults
	v.SetDefault("extraction.base_url", "http://localhost:8000")
	v.SetDefault("extraction.timeout", "90s")
	v.SetDefault("extraction.debug", false)

	// Store defaults
	v.SetDefault("store.path", "data/storytellerz.db")

	// Scraper defaults
	v.SetDefault("scraper.timeout", "15s")
	v.SetDefault("scraper.max_items", 20)

	// Cache defaults
	v.SetDefault("cache.ttl", "15m")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Extraction.BaseURL == "" {
		return fmt.Errorf("extraction base URL is required (set STORYTELLERZ_EXTRACTION_BASE_URL)")
	}

	if config.Store.Path == "" {
		return fmt.Errorf("store path is required (set STORYTELLERZ_STORE_PATH)")
	}

	if config.Scraper.MaxItems < 0 {
		return fmt.Errorf("scraper max_items must not be negative, got: %d", config.Scraper.MaxItems)
	}

	return nil
}

// loadEnvFile reads KEY=VALUE pairs from a local .env file into the
// process environment. Existing variables win; a missing file is fine.
func loadEnvFile() error {
	f, err := os.Open(".env")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
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
		if key == "" || os.Getenv(key) != "" {
			continue
		}
		os.Setenv(key, strings.TrimSpace(value))
	}
	return scanner.Err()
}
