package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/anil1907/fidi-api/internal/schedule"
)

type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	CORSOrigins []string
	Hours       schedule.Hours
}

// Load reads .env if present, then the environment. JWT_SECRET is the only
// required value; everything else has a sensible default for local use.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:        env("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	loc, err := time.LoadLocation(env("TIMEZONE", "Europe/Istanbul"))
	if err != nil {
		return Config{}, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Hours = schedule.DefaultHours(loc)

	if v := os.Getenv("BUSINESS_OPEN"); v != "" {
		if cfg.Hours.Open, err = schedule.ParseClock(v); err != nil {
			return Config{}, fmt.Errorf("BUSINESS_OPEN: %w", err)
		}
	}
	if v := os.Getenv("BUSINESS_CLOSE"); v != "" {
		if cfg.Hours.Close, err = schedule.ParseClock(v); err != nil {
			return Config{}, fmt.Errorf("BUSINESS_CLOSE: %w", err)
		}
	}
	if v := os.Getenv("MIN_APPOINTMENT"); v != "" {
		if cfg.Hours.MinDuration, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("MIN_APPOINTMENT: %w", err)
		}
	}
	if cfg.Hours.Close <= cfg.Hours.Open {
		return Config{}, fmt.Errorf("business hours: close %s must be after open %s", cfg.Hours.Close, cfg.Hours.Open)
	}

	return cfg, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
