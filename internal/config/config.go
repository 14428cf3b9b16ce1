package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	CORS       CORSConfig
	Sanitizer  SanitizerConfig
	Extractor  ExtractorConfig
	Classifier ClassifierConfig
	Validator  ValidatorConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SanitizerConfig bounds PDF text extraction. MaxChars approximates the
// completion model's context budget in characters.
type SanitizerConfig struct {
	MaxChars int `mapstructure:"max_chars"`
	MaxPages int `mapstructure:"max_pages"`
}

// ExtractorConfig holds completion service settings.
type ExtractorConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	MaxRetries  int    `mapstructure:"max_retries"`
	BackoffSecs int    `mapstructure:"backoff_secs"`
}

// ClassifierConfig points at the trained artifacts consumed at startup.
type ClassifierConfig struct {
	VectorizerPath string `mapstructure:"vectorizer_path"`
	ModelPath      string `mapstructure:"model_path"`
}

// ValidatorConfig holds schema validation settings.
type ValidatorConfig struct {
	// Tolerance is the absolute difference allowed when reconciling
	// amount x unit_price against stated line totals.
	Tolerance float64 `mapstructure:"tolerance"`
}

// Load reads configuration from environment variables with the PROKURA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PROKURA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Sanitizer defaults
	v.SetDefault("sanitizer.max_chars", 12000)
	v.SetDefault("sanitizer.max_pages", 3)

	// Extractor defaults
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.model", "gpt-4o")
	v.SetDefault("extractor.timeout_secs", 60)
	v.SetDefault("extractor.max_retries", 1)
	v.SetDefault("extractor.backoff_secs", 2)

	// Classifier defaults
	v.SetDefault("classifier.vectorizer_path", "artifacts/vectorizer.gob")
	v.SetDefault("classifier.model_path", "artifacts/classifier.gob")

	// Validator defaults
	v.SetDefault("validator.tolerance", 1.00)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "PROKURA_SERVER_PORT",
		"server.read_timeout":        "PROKURA_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "PROKURA_SERVER_WRITE_TIMEOUT",
		"server.environment":         "PROKURA_SERVER_ENVIRONMENT",
		"log.level":                  "PROKURA_LOG_LEVEL",
		"log.format":                 "PROKURA_LOG_FORMAT",
		"cors.allowed_origins":       "PROKURA_CORS_ALLOWED_ORIGINS",
		"sanitizer.max_chars":        "PROKURA_SANITIZER_MAX_CHARS",
		"sanitizer.max_pages":        "PROKURA_SANITIZER_MAX_PAGES",
		"extractor.api_key":          "PROKURA_EXTRACTOR_API_KEY",
		"extractor.model":            "PROKURA_EXTRACTOR_MODEL",
		"extractor.timeout_secs":     "PROKURA_EXTRACTOR_TIMEOUT_SECS",
		"extractor.max_retries":      "PROKURA_EXTRACTOR_MAX_RETRIES",
		"extractor.backoff_secs":     "PROKURA_EXTRACTOR_BACKOFF_SECS",
		"classifier.vectorizer_path": "PROKURA_CLASSIFIER_VECTORIZER_PATH",
		"classifier.model_path":      "PROKURA_CLASSIFIER_MODEL_PATH",
		"validator.tolerance":        "PROKURA_VALIDATOR_TOLERANCE",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Comma-separated origins arrive as a single string from env.
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}

	return &cfg, nil
}
