package infra

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	DatabaseURL      string
	AutoMigrate      bool
	WebhookURL       string
	RedisURL         string
	GeoIPDBPath      string
	TemplatesDir     string
	StaticDir        string
	DiscordInviteURL string
	CORSOrigins      []string

	FirebaseInitURL     string
	FirebaseTokenURL    string
	FirebaseHTTPTimeout time.Duration

	TokenRefreshInterval  time.Duration
	ReferralSweepInterval time.Duration
	QuotaResetCron        string
	EnforceReferralExpiry bool

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AutoMigrate:      getEnvBool("DB_AUTO_MIGRATE", true),
		WebhookURL:       strings.TrimSpace(os.Getenv("WEBHOOK")),
		RedisURL:         strings.TrimSpace(os.Getenv("RATE_LIMIT_REDIS_URL")),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		TemplatesDir:     getEnv("TEMPLATES_DIR", "templates"),
		StaticDir:        getEnv("STATIC_DIR", "static"),
		DiscordInviteURL: getEnv("DISCORD_INVITE_URL", "https://discord.gg/RWP25YQDcf"),
		CORSOrigins:      getEnvList("CORS_ALLOWED_ORIGINS"),

		FirebaseInitURL:     getEnv("FIREBASE_INIT_URL", "https://speechifymobile.firebaseapp.com/__/firebase/init.json"),
		FirebaseTokenURL:    getEnv("FIREBASE_TOKEN_URL", "https://securetoken.googleapis.com/v1/token"),
		FirebaseHTTPTimeout: time.Second * time.Duration(getEnvInt("FIREBASE_HTTP_TIMEOUT_SECONDS", 30)),

		TokenRefreshInterval:  time.Second * time.Duration(getEnvInt("TOKEN_REFRESH_INTERVAL_SECONDS", 1800)),
		ReferralSweepInterval: time.Second * time.Duration(getEnvInt("REFERRAL_SWEEP_INTERVAL_SECONDS", 5)),
		QuotaResetCron:        getEnv("QUOTA_RESET_CRON", "0 0 * * *"),
		EnforceReferralExpiry: getEnvBool("REFERRAL_ENFORCE_EXPIRY", true),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = postgresURLFromParts()
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or POSTGRES_HOST/POSTGRES_DATABASE is required")
	}
	if cfg.TokenRefreshInterval <= 0 {
		return nil, fmt.Errorf("TOKEN_REFRESH_INTERVAL_SECONDS must be positive")
	}
	if cfg.ReferralSweepInterval <= 0 {
		return nil, fmt.Errorf("REFERRAL_SWEEP_INTERVAL_SECONDS must be positive")
	}

	return cfg, nil
}

// postgresURLFromParts builds a DSN from the discrete POSTGRES_* variables
// used by older deployments. It returns "" when host or database is missing.
func postgresURLFromParts() string {
	host := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
	database := strings.TrimSpace(os.Getenv("POSTGRES_DATABASE"))
	if host == "" || database == "" {
		return ""
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, getEnv("POSTGRES_PORT", "5432")),
		Path:   "/" + database,
	}
	if user := os.Getenv("POSTGRES_USER"); user != "" {
		if password, ok := os.LookupEnv("POSTGRES_PASSWORD"); ok {
			u.User = url.UserPassword(user, password)
		} else {
			u.User = url.User(user)
		}
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}
