package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all environmentally dependent settings for the BookForge API.
type Config struct {
	ListenAddr   string
	DatabasePath string

	GeminiAPIKey string
	GeminiModel  string
	UseLocalLLM  bool
	OllamaHost   string
	OllamaModel  string

	GenerationTimeout        time.Duration
	MaxConcurrentGenerations int
}

// Validate ensures that all required configuration is present and valid.
func (c *Config) Validate() error {
	if !c.UseLocalLLM && c.GeminiAPIKey == "" {
		return fmt.Errorf("FORGE_GEMINI_API_KEY is required when FORGE_USE_LOCAL_LLM is false")
	}
	if c.MaxConcurrentGenerations < 1 {
		return fmt.Errorf("FORGE_MAX_CONCURRENT_GENERATIONS must be at least 1")
	}
	return nil
}

// Load reads settings from environment variables with sensible defaults.
func Load() *Config {
	cfg := &Config{
		ListenAddr:   getEnv("FORGE_LISTEN_ADDR", ":8080"),
		DatabasePath: getEnv("FORGE_DB_PATH", "bookforge.db"),

		GeminiAPIKey: getEnv("FORGE_GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("FORGE_GEMINI_MODEL", "gemini-1.5-pro"),
		UseLocalLLM:  getEnvBool("FORGE_USE_LOCAL_LLM", false),
		OllamaHost:   getEnv("FORGE_OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:  getEnv("FORGE_OLLAMA_MODEL", "llama3"),

		GenerationTimeout:        getEnvDuration("FORGE_GENERATION_TIMEOUT_SEC", 180) * time.Second,
		MaxConcurrentGenerations: getEnvInt("FORGE_MAX_CONCURRENT_GENERATIONS", 4),
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[Config] Validation failed: %v", err)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return fallback
}

func getEnvDuration(key string, fallback int) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return time.Duration(fallback)
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("[Config] Warning: Invalid duration for %s: %v. Using fallback %d", key, err, fallback)
		return time.Duration(fallback)
	}
	return time.Duration(value)
}

func getEnvInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("[Config] Warning: Invalid int for %s: %v. Using fallback %d", key, err, fallback)
		return fallback
	}
	return value
}
