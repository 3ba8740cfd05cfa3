package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config is the environment-derived configuration read once at startup.
type Config struct {
	Addr        string
	DatabaseURL string
	// SessionSecret signs the session cookies stored in Postgres.
	SessionSecret string
	FrontendURL   string
	// CallbackURL is the base URL providers redirect back to, without the
	// /auth/<provider>/callback suffix.
	CallbackURL string

	DiscordClientID     string
	DiscordClientSecret string
	GitHubClientID      string
	GitHubClientSecret  string
	GoogleClientID      string
	GoogleClientSecret  string

	DiscordGuildID string
	// DiscordGuildIDPrev is the pagination cursor handed to the guild
	// listing endpoint; it must sort immediately before DiscordGuildID.
	DiscordGuildIDPrev string
	DiscordBotToken    string

	GitHubAccessToken string
	GitHubOrg         string

	AuditLogWebhook  string
	CalendarTimeZone string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:                getenv("ADDR", ":9999"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		SessionSecret:       os.Getenv("SESSION_SECRET"),
		FrontendURL:         os.Getenv("FRONTEND_URL"),
		CallbackURL:         os.Getenv("CALLBACK_URL"),
		DiscordClientID:     os.Getenv("DISCORD_CLIENT_ID"),
		DiscordClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
		GitHubClientID:      os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret:  os.Getenv("GITHUB_CLIENT_SECRET"),
		GoogleClientID:      os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:  os.Getenv("GOOGLE_CLIENT_SECRET"),
		DiscordGuildID:      os.Getenv("DISCORD_GUILD_ID"),
		DiscordGuildIDPrev:  os.Getenv("DISCORD_GUILD_ID_PREV"),
		DiscordBotToken:     os.Getenv("DISCORD_BOT_TOKEN"),
		GitHubAccessToken:   os.Getenv("GITHUB_ACCESS_TOKEN"),
		GitHubOrg:           os.Getenv("GITHUB_ORG"),
		AuditLogWebhook:     os.Getenv("AUDIT_LOG_WEBHOOK"),
		CalendarTimeZone:    getenv("CALENDAR_TIME_ZONE", "Asia/Tokyo"),
	}

	required := map[string]string{
		"DATABASE_URL":          cfg.DatabaseURL,
		"SESSION_SECRET":        cfg.SessionSecret,
		"FRONTEND_URL":          cfg.FrontendURL,
		"CALLBACK_URL":          cfg.CallbackURL,
		"DISCORD_CLIENT_ID":     cfg.DiscordClientID,
		"DISCORD_CLIENT_SECRET": cfg.DiscordClientSecret,
		"GITHUB_CLIENT_ID":      cfg.GitHubClientID,
		"GITHUB_CLIENT_SECRET":  cfg.GitHubClientSecret,
		"GOOGLE_CLIENT_ID":      cfg.GoogleClientID,
		"GOOGLE_CLIENT_SECRET":  cfg.GoogleClientSecret,
		"DISCORD_GUILD_ID":      cfg.DiscordGuildID,
		"DISCORD_GUILD_ID_PREV": cfg.DiscordGuildIDPrev,
		"DISCORD_BOT_TOKEN":     cfg.DiscordBotToken,
		"GITHUB_ACCESS_TOKEN":   cfg.GitHubAccessToken,
		"GITHUB_ORG":            cfg.GitHubOrg,
		"AUDIT_LOG_WEBHOOK":     cfg.AuditLogWebhook,
	}
	for name, value := range required {
		if value == "" {
			return nil, fmt.Errorf("environment variable %s is required", name)
		}
	}

	return cfg, nil
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
