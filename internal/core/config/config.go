// Package config provides configuration management for the copilot service.
package config

import (
	"os"
	"time"
)

// ServerConfig holds configuration for the analysis API service.
type ServerConfig struct {
	Host            string
	Port            int
	RulesDir        string
	DBURL           string
	Provider        string // generative backend: gemini or openai
	ClassifierModel string
	SpecialistModel string
	CallTimeout     time.Duration // per external call (classifier, specialist, TTS)
	ShutdownTimeout time.Duration
	CORSOrigins     string
	TTSVoiceID      string
}

// DefaultServerConfig returns configuration with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:            "0.0.0.0",
		Port:            8000,
		RulesDir:        "./rulesets",
		Provider:        "gemini",
		ClassifierModel: "gemini-2.0-flash-exp",
		SpecialistModel: "gemini-2.0-flash-exp",
		CallTimeout:     30 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		CORSOrigins:     "*",
		TTSVoiceID:      "JBFqnCBsd6RMkjVDRZzb",
	}
}

// API keys are environment-only per 12-factor principles; the viper loader
// rejects them in config files.

// GeminiAPIKey returns the Gemini backend key from the environment.
func GeminiAPIKey() string {
	return os.Getenv("GOOGLE_API_KEY")
}

// OpenAIAPIKey returns the OpenAI backend key from the environment.
func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// ElevenLabsAPIKey returns the text-to-speech proxy key from the environment.
func ElevenLabsAPIKey() string {
	return os.Getenv("ELEVENLABS_API_KEY")
}
