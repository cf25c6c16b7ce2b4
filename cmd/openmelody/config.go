package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains application-wide settings sourced from the environment.
type Config struct {
	DatabaseURL    string
	Addr           string
	AllowedOrigins []string
	TokenSecret    []byte
	TokenAge       time.Duration
	LogLevel       string
	LogFormat      string
}

func loadConfig() (Config, error) {
	_ = godotenv.Load("config/local.env")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return Config{}, errors.New("DATABASE_URL env var is required")
	}

	secret := os.Getenv("ACCESS_TOKEN_KEY")
	if secret == "" {
		return Config{}, errors.New("ACCESS_TOKEN_KEY env var is required")
	}

	tokenAge, err := parseTokenAge(envOrDefault("ACCESS_TOKEN_AGE", "3600"))
	if err != nil {
		return Config{}, err
	}

	addr := fmt.Sprintf(":%s", envOrDefault("PORT", "8080"))
	origins := parseAllowedOrigins(envOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))

	return Config{
		DatabaseURL:    dsn,
		Addr:           addr,
		AllowedOrigins: origins,
		TokenSecret:    []byte(secret),
		TokenAge:       tokenAge,
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("LOG_FORMAT", "json"),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseTokenAge reads the access token lifetime in seconds.
func parseTokenAge(raw string) (time.Duration, error) {
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0, fmt.Errorf("ACCESS_TOKEN_AGE must be a positive number of seconds, got %q", raw)
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseAllowedOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	var origins []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
