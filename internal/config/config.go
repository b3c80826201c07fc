package config

import (
	"os"
)

type Config struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	RedisHost      string
	RedisPort      string
	SessionSecret  string
	GinMode        string
	ListenAddr     string
	StorageBaseURL string
	StorageBucket  string
	StorageAPIKey  string
}

func Load() *Config {
	return &Config{
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "pge"),
		DBPassword:     getEnv("DB_PASSWORD", "pge"),
		DBName:         getEnv("DB_NAME", "pge_incidents"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		SessionSecret:  getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", ""),
		StorageBucket:  getEnv("STORAGE_BUCKET", "fotos-incidencias"),
		StorageAPIKey:  getEnv("STORAGE_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
