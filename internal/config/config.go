package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Generate GenerateConfig
	Auth     AuthConfig
	Speech   SpeechConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type GenerateConfig struct {
	BaseURL      string
	DefaultModel string
	MaxNewTokens int
}

type AuthConfig struct {
	JWTSecret    string
	TokenTTL     int // hours
	AllowedUsers []string
}

type SpeechConfig struct {
	Provider string // "http" or "none"
	BaseURL  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Generate: GenerateConfig{
			BaseURL:      getEnv("GENERATE_BASE_URL", "http://localhost:8000"),
			DefaultModel: getEnv("GENERATE_DEFAULT_MODEL", "basic"),
			MaxNewTokens: getEnvAsInt("GENERATE_MAX_NEW_TOKENS", 10000),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			TokenTTL:     getEnvAsInt("AUTH_TOKEN_TTL_HOURS", 24),
			AllowedUsers: splitList(getEnv("ALLOWED_USERS", "roberto,pablo,shafeena")),
		},
		Speech: SpeechConfig{
			Provider: getEnv("SPEECH_PROVIDER", "none"),
			BaseURL:  getEnv("SPEECH_BASE_URL", "http://localhost:9000"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(strings.ToLower(item))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
