package config

import (
	"os"
)

type Config struct {
	Port        string
	Host        string
	Environment string
	DatabaseURL string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		// PORT takes precedence over SERVER_PORT for platform compatibility
		Port:        getEnv("PORT", getEnv("SERVER_PORT", "8080")),
		Host:        getEnv("SERVER_HOST", "0.0.0.0"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
