package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the process needs, loaded once at startup.
type Config struct {
	AppName     string
	Port        string
	MetricsPort string

	DatabaseDSN string

	JWTSecret          string
	AccessTokenMinutes int

	CheckIntervalMinutes int
	CheckInterval        time.Duration
	FetchTimeout         time.Duration
	MaxConcurrentChecks  int
	MaxCandidates        int
	RobotsTTL            time.Duration
	HistoryRetentionDays int

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	LogLevel  string
	LogFormat string
}

// Load reads .env (if present) and the environment, applying defaults.
func Load() (*Config, error) {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8081")
	v.SetDefault("METRICS_PORT", "9100")
	v.SetDefault("DATABASE_DSN", "root:root@tcp(localhost:3306)/pricetracker?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("ACCESS_TOKEN_MINUTES", 30)
	v.SetDefault("CHECK_INTERVAL_MINUTES", 30)
	v.SetDefault("FETCH_TIMEOUT_SECONDS", 20)
	v.SetDefault("MAX_CONCURRENT_CHECKS", 4)
	v.SetDefault("MAX_CANDIDATES", 10)
	v.SetDefault("ROBOTS_TTL_MINUTES", 60)
	v.SetDefault("HISTORY_RETENTION_DAYS", 180)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	cfg := &Config{
		AppName:              "Smart E-Commerce Price Tracker & Deal Notifier",
		Port:                 v.GetString("PORT"),
		MetricsPort:          v.GetString("METRICS_PORT"),
		DatabaseDSN:          v.GetString("DATABASE_DSN"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		AccessTokenMinutes:   v.GetInt("ACCESS_TOKEN_MINUTES"),
		CheckIntervalMinutes: v.GetInt("CHECK_INTERVAL_MINUTES"),
		MaxConcurrentChecks:  v.GetInt("MAX_CONCURRENT_CHECKS"),
		MaxCandidates:        v.GetInt("MAX_CANDIDATES"),
		HistoryRetentionDays: v.GetInt("HISTORY_RETENTION_DAYS"),
		SMTPHost:             v.GetString("SMTP_HOST"),
		SMTPPort:             v.GetInt("SMTP_PORT"),
		SMTPUser:             v.GetString("SMTP_USER"),
		SMTPPass:             v.GetString("SMTP_PASS"),
		SMTPFrom:             v.GetString("SMTP_FROM"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		LogFormat:            v.GetString("LOG_FORMAT"),
	}

	if cfg.CheckIntervalMinutes < 1 {
		return nil, fmt.Errorf("CHECK_INTERVAL_MINUTES must be >= 1, got %d", cfg.CheckIntervalMinutes)
	}
	if cfg.MaxConcurrentChecks < 1 {
		return nil, fmt.Errorf("MAX_CONCURRENT_CHECKS must be >= 1, got %d", cfg.MaxConcurrentChecks)
	}

	cfg.CheckInterval = time.Duration(cfg.CheckIntervalMinutes) * time.Minute
	cfg.FetchTimeout = time.Duration(v.GetInt("FETCH_TIMEOUT_SECONDS")) * time.Second
	cfg.RobotsTTL = time.Duration(v.GetInt("ROBOTS_TTL_MINUTES")) * time.Minute

	return cfg, nil
}

// RetentionWindow is the price-history retention as a duration.
func (c *Config) RetentionWindow() time.Duration {
	return time.Duration(c.HistoryRetentionDays) * 24 * time.Hour
}

// SMTPConfigured reports whether all SMTP settings required for real
// email delivery are present.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPPort != 0 && c.SMTPUser != "" && c.SMTPPass != "" && c.SMTPFrom != ""
}
