package utils

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() {
	_ = godotenv.Load()
}

const defaultMaxFileSize = 10 * 1024 * 1024 // 10MB

// Settings holds the process-wide configuration loaded from environment
// variables. Immutable after LoadSettings.
type Settings struct {
	GeminiAPIKey string
	GeminiModel  string
	MaxFileSize  int64
	Port         string
}

// LoadSettings reads the application settings from the environment.
// GEMINI_API_KEY is required; everything else has a default.
func LoadSettings(logger *zap.Logger) (*Settings, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	maxSize := int64(defaultMaxFileSize)
	if raw := os.Getenv("MAX_FILE_SIZE"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid MAX_FILE_SIZE %q", raw)
		}
		maxSize = parsed
	}

	s := &Settings{
		GeminiAPIKey: apiKey,
		GeminiModel:  GetEnvOrDefault("GEMINI_MODEL", "gemini-2.5-pro"),
		MaxFileSize:  maxSize,
		Port:         GetEnvOrDefault("APP_PORT", "8080"),
	}

	logger.Sugar().Infow("Settings loaded",
		"model", s.GeminiModel,
		"max_file_size", s.MaxFileSize)
	return s, nil
}

func MustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("Missing required environment variable: " + key)
	}
	return val
}

func GetEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}
