package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port             string
	DatabaseURL      string
	AllowedOrigins   []string
	CelebrationDelay time.Duration
	DrawMinInterval  time.Duration
	DrawSeed         *uint64
	DefaultLobbies   []string
	LogLevel         string
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (Config, error) {
	c := Config{
		Port:             envOr("PORT", "4000"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		AllowedOrigins:   splitList(envOr("ALLOWED_ORIGINS", "http://localhost:3000")),
		CelebrationDelay: 4 * time.Second,
		DrawMinInterval:  200 * time.Millisecond,
		DefaultLobbies:   splitList(envOr("DEFAULT_LOBBIES", "main")),
		LogLevel:         strings.ToLower(envOr("LOG_LEVEL", "info")),
	}

	var err error
	if c.CelebrationDelay, err = durationEnv("CELEBRATION_DELAY", c.CelebrationDelay); err != nil {
		return Config{}, err
	}
	if c.DrawMinInterval, err = durationEnv("DRAW_MIN_INTERVAL", c.DrawMinInterval); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("DRAW_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DRAW_SEED %q: %w", v, err)
		}
		c.DrawSeed = &seed
	}

	if len(c.AllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("invalid ALLOWED_ORIGINS: no origins listed")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}

	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, v)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
