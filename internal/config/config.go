package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

type Config struct {
	AppEnv          string
	DatabaseURL     string
	JWTSecret       string
	Port            string
	CORSOrigins     []string
	RewardsFile     string
	DefaultTimezone *time.Location
}

// Load reads the environment. An empty DATABASE_URL selects the in-memory
// store.
func Load() (Config, error) {
	cfg := Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: splitList(os.Getenv("CORS_ORIGIN")),
		RewardsFile: os.Getenv("REWARDS_FILE"),
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	loc := time.Local
	if name := os.Getenv("DEFAULT_TIMEZONE"); name != "" {
		var err error
		loc, err = time.LoadLocation(name)
		if err != nil {
			return Config{}, errors.New("DEFAULT_TIMEZONE is not a valid IANA zone")
		}
	}
	cfg.DefaultTimezone = loc
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
