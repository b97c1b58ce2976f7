package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress string
	PostgresConn  string

	PuescBaseURL     string
	PuescAPIKey      string
	PuescEnvironment string // test | production
	PuescTimeoutMs   int

	SenderSystemID   string
	ReceiverSystemID string

	SessionTTLHours int
	ReportDir       string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ServerAddress: getEnv("SERVER_ADDRESS", "0.0.0.0:8080"),
		PostgresConn:  getEnv("POSTGRES_CONN", ""),

		PuescBaseURL:     getEnv("PUESC_API_BASE_URL", "https://test.puesc.gov.pl/api"),
		PuescAPIKey:      getEnv("PUESC_API_KEY", ""),
		PuescEnvironment: getEnv("PUESC_ENVIRONMENT", "test"),
		PuescTimeoutMs:   getEnvInt("PUESC_TIMEOUT_MS", 30000),

		SenderSystemID:   getEnv("SENT_SENDER_SYSTEM_ID", "QUICKSENT"),
		ReceiverSystemID: getEnv("SENT_RECEIVER_SYSTEM_ID", "PUESC"),

		SessionTTLHours: getEnvInt("SESSION_TTL_HOURS", 24),
		ReportDir:       getEnv("REPORT_DIR", filepath.Join(cwd, "data", "reports")),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
