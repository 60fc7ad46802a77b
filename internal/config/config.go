package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Identity directory
	IdentityBaseURL        string
	MaintainerPoolClientID string
	VisitorPoolClientID    string

	// Mail relay
	MailBaseURL string
	MailFrom    string

	// Verification token
	TokenTTL           time.Duration
	TokenSweepInterval time.Duration

	// Outbound HTTP
	GatewayTimeout time.Duration

	// Rate Limit
	RateLimitGeneral  int
	RateLimitTokenReq int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.IdentityBaseURL = os.Getenv("IDENTITY_BASE_URL")
	if cfg.IdentityBaseURL == "" {
		missing = append(missing, "IDENTITY_BASE_URL")
	}

	cfg.MaintainerPoolClientID = os.Getenv("MAINTAINER_POOL_CLIENT_ID")
	if cfg.MaintainerPoolClientID == "" {
		missing = append(missing, "MAINTAINER_POOL_CLIENT_ID")
	}

	cfg.VisitorPoolClientID = os.Getenv("VISITOR_POOL_CLIENT_ID")
	if cfg.VisitorPoolClientID == "" {
		missing = append(missing, "VISITOR_POOL_CLIENT_ID")
	}

	cfg.MailBaseURL = os.Getenv("MAIL_BASE_URL")
	if cfg.MailBaseURL == "" {
		missing = append(missing, "MAIL_BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.MailFrom = getEnvString("MAIL_FROM", "no-reply@makerspace.edu")
	cfg.TokenTTL = getEnvDuration("TOKEN_TTL", 24*time.Hour)
	cfg.TokenSweepInterval = getEnvDuration("TOKEN_SWEEP_INTERVAL", 1*time.Hour)
	cfg.GatewayTimeout = getEnvDuration("GATEWAY_TIMEOUT", 10*time.Second)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitTokenReq = getEnvInt("RATE_LIMIT_TOKEN_REQ", 10)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "*")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
