package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Gemini AI
	GeminiAPIKey    string
	GeminiModel     string
	GeminiBaseURL   string
	GeminiTransport string // "rest" | "sdk"
	UpstreamTimeout time.Duration

	// CORS
	AllowedOrigins []string
}

// ClientConfig configures the terminal chat widget.
type ClientConfig struct {
	Endpoint string
	Timeout  time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "3000"),
		Env:             getEnvOrDefault("ENV", "development"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash-latest"),
		GeminiBaseURL:   getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiTransport: strings.ToLower(getEnvOrDefault("GEMINI_TRANSPORT", "rest")),
		UpstreamTimeout: time.Duration(getEnvAsIntOrDefault("UPSTREAM_TIMEOUT_SECONDS", 30)) * time.Second,
		AllowedOrigins:  getEnvAsListOrDefault("ALLOWED_ORIGINS", []string{"*"}),
	}

	return cfg
}

// HasAPIKey reports whether the upstream credential was configured.
func (c *Config) HasAPIKey() bool {
	return c.GeminiAPIKey != ""
}

func LoadClient() *ClientConfig {
	godotenv.Load()

	return &ClientConfig{
		Endpoint: getEnvOrDefault("RELAY_URL", "http://localhost:3000/api/chat"),
		Timeout:  time.Duration(getEnvAsIntOrDefault("RELAY_TIMEOUT_SECONDS", 60)) * time.Second,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
