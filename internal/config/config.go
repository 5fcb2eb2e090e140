package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	JWTSecret string

	// StreakTimezone is the IANA location used for every calendar-day
	// boundary in the engine (grouping, gap detection, sweep cutoff).
	StreakTimezone string

	// LookbackEvents bounds the activity history read per recompute.
	LookbackEvents int

	SweepSchedule string

	LeaderboardCacheTTL time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		JWTSecret: getEnv("JWT_SECRET", "12345"),

		StreakTimezone: getEnv("STREAK_TIMEZONE", "UTC"),
		SweepSchedule:  getEnv("SWEEP_SCHEDULE", "10 0 * * *"),
	}

	var err error
	cfg.LookbackEvents, err = parseInt(getEnv("STREAK_LOOKBACK_EVENTS", "365"))
	if err != nil {
		return nil, fmt.Errorf("invalid STREAK_LOOKBACK_EVENTS: %w", err)
	}

	cfg.LeaderboardCacheTTL, err = parseDuration(getEnv("LEADERBOARD_CACHE_TTL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEADERBOARD_CACHE_TTL: %w", err)
	}

	if _, err := time.LoadLocation(cfg.StreakTimezone); err != nil {
		return nil, fmt.Errorf("invalid STREAK_TIMEZONE: %w", err)
	}

	return cfg, nil
}

// Location resolves StreakTimezone. Load has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.StreakTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}
