package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Brand assets (header marks, cover logo)
	AssetDir  string
	LeftMark  string
	RightMark string

	// Document identity
	OrgName string
	OrgUnit string

	// Request limits
	MaxRequestBytes int64
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("TOREXPORT_API_KEY"),

		AssetDir:  envOr("ASSET_DIR", "assets"),
		LeftMark:  envOr("LEFT_MARK", "mark-left.png"),
		RightMark: envOr("RIGHT_MARK", "mark-right.png"),

		OrgName: envOr("ORG_NAME", "PT PLN INDONESIA POWER"),
		OrgUnit: envOr("ORG_UNIT", "UBP CILEGON"),

		MaxRequestBytes: envInt64("MAX_REQUEST_BYTES", 20971520), // 20MB
	}

	if cfg.MaxRequestBytes <= 0 {
		cfg.MaxRequestBytes = 20971520
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("TOREXPORT_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
