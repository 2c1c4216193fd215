package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Caller auth
	JWTSecret    string
	ServiceToken string

	// Vendor API
	VendorAPIURL  string
	VendorTimeout time.Duration

	// Sync engine
	DefaultLookback     time.Duration
	SessionLookbackDays int

	// Backfill collaborator (empty disables the trigger)
	BackfillURL     string
	BackfillTimeout time.Duration

	// Scheduler
	SchedulerEnabled  bool
	SchedulerInterval time.Duration

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	// Optional .env for local development; deployments set real env vars.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "glucolink_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		ServiceToken: getEnv("SERVICE_TOKEN", ""),

		VendorAPIURL:  getEnv("VENDOR_API_URL", "https://api.dexcom.com/v3"),
		VendorTimeout: parseDuration(getEnv("VENDOR_TIMEOUT", "30s"), 30*time.Second),

		DefaultLookback:     parseDuration(getEnv("SYNC_DEFAULT_LOOKBACK", "24h"), 24*time.Hour),
		SessionLookbackDays: parseInt(getEnv("SESSION_LOOKBACK_DAYS", "30"), 30),

		BackfillURL:     getEnv("BACKFILL_URL", ""),
		BackfillTimeout: parseDuration(getEnv("BACKFILL_TIMEOUT", "10s"), 10*time.Second),

		SchedulerEnabled:  getEnv("SCHEDULER_ENABLED", "false") == "true",
		SchedulerInterval: parseDuration(getEnv("SCHEDULER_INTERVAL", "5m"), 5*time.Minute),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
