package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string

	// Collective-stats collaborator. Empty URL disables the source.
	CollectiveStatsURL string
	CollectiveTimeout  time.Duration

	// Sharing gateway (decentralized storage). Empty URL disables sharing.
	ShareGatewayURL string

	RetentionDays      int
	AnalysisWindowDays int

	LogLevel string
}

// Load reads .env if present, then the process environment. Missing required
// variables panic at startup.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",

		CollectiveStatsURL: getenv("COLLECTIVE_STATS_URL", ""),
		CollectiveTimeout:  time.Duration(getenvInt("COLLECTIVE_TIMEOUT_MS", 3000)) * time.Millisecond,
		ShareGatewayURL:    getenv("SHARE_GATEWAY_URL", ""),

		RetentionDays:      getenvInt("RETENTION_DAYS", 90),
		AnalysisWindowDays: getenvInt("ANALYSIS_WINDOW_DAYS", 14),

		LogLevel: getenv("LOG_LEVEL", "info"),
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.JWTSecret = mustGetenv("JWT_SECRET")
	return cfg
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}
