package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*ServerConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultServerConfig
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.rules_dir", "./rulesets")
	v.SetDefault("server.db_url", "")
	v.SetDefault("server.provider", "gemini")
	v.SetDefault("server.classifier_model", "gemini-2.0-flash-exp")
	v.SetDefault("server.specialist_model", "gemini-2.0-flash-exp")
	v.SetDefault("server.call_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.cors_origins", "*")
	v.SetDefault("server.tts_voice_id", "JBFqnCBsd6RMkjVDRZzb")

	// Bind environment variables with COPILOT_ prefix
	v.SetEnvPrefix("COPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Security check: reject API keys in config files
	// Keys must be environment-only per 12-factor principles
	if err := validateNoKeysInConfig(v); err != nil {
		return nil, err
	}

	cfg := &ServerConfig{
		Host:            v.GetString("server.host"),
		Port:            v.GetInt("server.port"),
		RulesDir:        v.GetString("server.rules_dir"),
		DBURL:           v.GetString("server.db_url"),
		Provider:        v.GetString("server.provider"),
		ClassifierModel: v.GetString("server.classifier_model"),
		SpecialistModel: v.GetString("server.specialist_model"),
		CallTimeout:     v.GetDuration("server.call_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		CORSOrigins:     v.GetString("server.cors_origins"),
		TTSVoiceID:      v.GetString("server.tts_voice_id"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks port range, provider, and positive timeouts.
func validateConfig(cfg *ServerConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.Provider != "gemini" && cfg.Provider != "openai" {
		return fmt.Errorf("provider must be gemini or openai, got %q", cfg.Provider)
	}
	if cfg.RulesDir == "" {
		return fmt.Errorf("rules_dir must not be empty")
	}
	if cfg.CallTimeout <= 0 {
		return fmt.Errorf("call_timeout must be positive, got %v", cfg.CallTimeout)
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %v", cfg.ShutdownTimeout)
	}
	return nil
}

// validateNoKeysInConfig enforces environment-only secrets (12-factor principle).
func validateNoKeysInConfig(v *viper.Viper) error {
	for _, key := range []string{"google_api_key", "openai_api_key", "elevenlabs_api_key",
		"server.google_api_key", "server.openai_api_key", "server.elevenlabs_api_key"} {
		if v.IsSet(key) {
			return fmt.Errorf("API keys not allowed in config files (use environment variables)")
		}
	}
	return nil
}
