package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultJWTTTL       = "24h"
	defaultListenAddr   = ":8080"
	defaultDatabaseURL  = "tutorhub.db"
	defaultGatewayURL   = "https://app.sandbox.midtrans.com/snap/v1/transactions"
	defaultOpenAIURL    = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel  = "gpt-4.1-nano"
	defaultGoogleOAuth  = "https://oauth2.googleapis.com/tokeninfo"
	defaultOrderRefPref = "BOOKING"
)

// Config is the full runtime configuration, read once at startup.
type Config struct {
	AppEnv      string
	ListenAddr  string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	// payment gateway (Midtrans Snap style hosted checkout)
	GatewayServerKey string
	GatewayURL       string
	OrderRefPrefix   string

	// recommendation assistant
	OpenAIKey   string
	OpenAIURL   string
	OpenAIModel string

	// federated login
	GoogleClientID     string
	GoogleTokenInfoURL string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:             envOrDefault("APP_ENV", "dev"),
		ListenAddr:         envOrDefault("LISTEN_ADDR", defaultListenAddr),
		DatabaseURL:        envOrDefault("DATABASE_URL", defaultDatabaseURL),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		GatewayServerKey:   os.Getenv("MIDTRANS_SERVER_KEY"),
		GatewayURL:         envOrDefault("MIDTRANS_SNAP_URL", defaultGatewayURL),
		OrderRefPrefix:     envOrDefault("ORDER_REF_PREFIX", defaultOrderRefPref),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIURL:          envOrDefault("OPENAI_API_URL", defaultOpenAIURL),
		OpenAIModel:        envOrDefault("OPENAI_MODEL", defaultOpenAIModel),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleTokenInfoURL: envOrDefault("GOOGLE_TOKENINFO_URL", defaultGoogleOAuth),
	}

	if cfg.JWTSecret == "" {
		if cfg.AppEnv != "dev" {
			return nil, fmt.Errorf("JWT_SECRET is required when APP_ENV=%s", cfg.AppEnv)
		}
		cfg.JWTSecret = "change-me-jwt-secret"
	}

	ttl, err := time.ParseDuration(envOrDefault("JWT_TTL", defaultJWTTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	return cfg, nil
}

func envOrDefault(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}
