package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Telegram TelegramConfig
	Roles    RolesConfig
	Log      LogConfig
	Ads      AdsConfig
}

type ServerConfig struct {
	Port         string
	Environment  string
	AllowOrigins string
}

type DatabaseConfig struct {
	URL string
}

type TelegramConfig struct {
	BotToken        string
	BotUsername     string
	RequiredChannel string
	MiniAppURL      string
}

type RolesConfig struct {
	Admins    []int64
	Verifiers []int64
}

type LogConfig struct {
	File string
}

type AdsConfig struct {
	RetentionInterval time.Duration
}

// IsPostgres reports whether DATABASE_URL points at a Postgres server.
// Anything else is treated as a SQLite location.
func (d DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(d.URL, "postgresql://") || strings.HasPrefix(d.URL, "postgres://")
}

// SQLitePath returns the SQLite file for non-Postgres URLs.
func (d DatabaseConfig) SQLitePath() string {
	path := strings.TrimPrefix(d.URL, "sqlite://")
	if path == "" {
		return DefaultSQLitePath
	}
	return path
}

// IsAdmin is a static membership test against the configured admin list.
func (r RolesConfig) IsAdmin(userID int64) bool {
	for _, id := range r.Admins {
		if id == userID {
			return true
		}
	}
	return false
}

// PrimaryAdmin is recorded as the granting admin of seeded verifiers.
func (r RolesConfig) PrimaryAdmin() int64 {
	if len(r.Admins) == 0 {
		return 0
	}
	return r.Admins[0]
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	admins, err := parseIDList(getEnv("ADMINS", "123456789"))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMINS: %w", err)
	}
	verifiers, err := parseIDList(getEnv("VERIFIERS", "987654321"))
	if err != nil {
		return nil, fmt.Errorf("invalid VERIFIERS: %w", err)
	}

	retention, err := time.ParseDuration(getEnv("AD_RETENTION_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid AD_RETENTION_INTERVAL: %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if strings.HasPrefix(dbURL, "postgres://") {
		dbURL = strings.Replace(dbURL, "postgres://", "postgresql://", 1)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			AllowOrigins: getEnv("ALLOW_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			URL: dbURL,
		},
		Telegram: TelegramConfig{
			BotToken:        getEnv("BOT_TOKEN", ""),
			BotUsername:     getEnv("BOT_USERNAME", "X_Reward_Bot"),
			RequiredChannel: strings.TrimPrefix(getEnv("REQUIRED_CHANNEL", "X_Reward_botChannel"), "@"),
			MiniAppURL:      getEnv("MINI_APP_URL", "https://x-reward-bot-mini.vercel.app"),
		},
		Roles: RolesConfig{
			Admins:    admins,
			Verifiers: verifiers,
		},
		Log: LogConfig{
			File: getEnv("LOG_FILE", ""),
		},
		Ads: AdsConfig{
			RetentionInterval: retention,
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a user id", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

const (
	DefaultSQLitePath = "bot.db"

	PendingActionTTL = 10 * time.Minute
)
