package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultSessionTTL = 24 * time.Hour

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	AppEnv         string
	ListenAddr     string
	Port           string
	DatabasePath   string
	SessionSecret  string
	SessionTTL     time.Duration
	CookieSecure   bool
	GinMode        string
	StaticDir      string
	AllowedOrigins []string
	AdminUsername  string
	AdminPassword  string
	LogLevel       string

	ResendAPIKey    string
	NotifyEmailFrom string
	NotifyEmailTo   string
}

// IsProduction 判断当前是否运行在生产环境。
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// NotificationsEnabled 仅在 Resend 凭据与收件人均已配置时返回 true。
func (c AppConfig) NotificationsEnabled() bool {
	return c.ResendAPIKey != "" && c.NotifyEmailTo != ""
}

// Load 读取 .env（若存在）后从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv 仅从当前进程环境变量构建配置。
func FromEnv() AppConfig {
	port := env("PORT", "5000")

	listenAddr := env("LISTEN_ADDR", "")
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	return AppConfig{
		AppEnv:          env("APP_ENV", "development"),
		ListenAddr:      listenAddr,
		Port:            port,
		DatabasePath:    env("DATABASE_PATH", "softy.db"),
		SessionSecret:   env("SESSION_SECRET", "softy-session-secret"),
		SessionTTL:      durationEnv("SESSION_TTL", defaultSessionTTL),
		CookieSecure:    boolEnv("COOKIE_SECURE", false),
		GinMode:         env("GIN_MODE", "release"),
		StaticDir:       env("STATIC_DIR", "dist/public"),
		AllowedOrigins:  listEnv("ALLOWED_ORIGINS"),
		AdminUsername:   env("ADMIN_USERNAME", ""),
		AdminPassword:   env("ADMIN_PASSWORD", ""),
		LogLevel:        env("LOG_LEVEL", "info"),
		ResendAPIKey:    env("RESEND_API_KEY", ""),
		NotifyEmailFrom: env("NOTIFY_EMAIL_FROM", "Softy Software <noreply@softy.dev>"),
		NotifyEmailTo:   env("NOTIFY_EMAIL_TO", ""),
	}
}

func env(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := env(key, "")
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func boolEnv(key string, fallback bool) bool {
	raw := env(key, "")
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func listEnv(key string) []string {
	raw := env(key, "")
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
