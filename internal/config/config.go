// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// SyncPort is the TCP port the sync endpoint listens on. Port 0 binds an
	// ephemeral port, which Server.Port() reports after startup.
	SyncPort int
	DBPath   string

	SeedChats    int
	SeedMessages int

	Environment string
	LogLevel    string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	return &Config{
		SyncPort:     getEnvAsInt("SYNC_PORT", 8123),
		DBPath:       getEnv("DB_PATH", "secure-messenger.db"),
		SeedChats:    getEnvAsInt("SEED_CHATS", 200),
		SeedMessages: getEnvAsInt("SEED_MESSAGES", 20000),
		Environment:  env,
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using default %d", key, valueStr, fallback)
		return fallback
	}
	return value
}
