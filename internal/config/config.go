package config

import (
	"fmt"
	"os"
)

type Config struct {
	ServerPort   string
	StoreBackend string // memory, file, redis, or postgres
	DataFile     string
	RedisAddr    string
	NatsURL      string // empty disables event publishing
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
}

func Load() *Config {
	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		StoreBackend: getEnv("STORE_BACKEND", "file"),
		DataFile:     getEnv("DATA_FILE", "pocketbank.json"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		NatsURL:      getEnv("NATS_URL", ""),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", "postgres"),
		DBName:       getEnv("DB_NAME", "pocketbank"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
