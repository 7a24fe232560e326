package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Settings collects every tunable the handlers and services need. Loaded
// once in main and passed down explicitly instead of read from the
// environment at call sites.
type Settings struct {
	Port      string
	JWTSecret string
	LogLevel  string

	// First day of the current Ramadan, used to derive the day number when
	// the client does not send one. Zero when unset.
	RamadanStart time.Time
}

func LoadSettings() Settings {
	// Missing .env is fine in production, env vars are set directly there.
	_ = godotenv.Load()

	settings := Settings{
		Port:      os.Getenv("PORT"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		LogLevel:  os.Getenv("LOG_LEVEL"),
	}

	if settings.Port == "" {
		settings.Port = "8080"
	}
	if settings.LogLevel == "" {
		settings.LogLevel = "info"
	}

	if raw := os.Getenv("RAMADAN_START_DATE"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			settings.RamadanStart = parsed
		}
	}

	return settings
}
