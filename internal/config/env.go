package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures every tunable parameter for the process. It is built once
// in main via Load and passed explicitly to each component; nothing outside
// this package reads the environment.
type Config struct {
	AppAddr         string
	GinMode         string
	LogLevel        string
	SiteBaseURL     string
	ShutdownTimeout time.Duration

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret       string
	TokenTTL        time.Duration
	SessionCacheTTL time.Duration

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string
	KafkaTopic   string

	NominatimBaseURL string
	ORSBaseURL       string
	ORSAPIKey        string
	GeocodeTimeout   time.Duration
	RouteTimeout     time.Duration
	FetchTimeout     time.Duration
	FetchRetries     int

	CORSOrigins []string
}

func defaults() Config {
	return Config{
		AppAddr:          ":8080",
		LogLevel:         "info",
		SiteBaseURL:      "http://localhost:8080",
		ShutdownTimeout:  10 * time.Second,
		DBUser:           "root",
		DBHost:           "127.0.0.1:3306",
		DBName:           "carpool",
		TokenTTL:         24 * time.Hour,
		SessionCacheTTL:  60 * time.Second,
		KafkaTopic:       "booking-events",
		NominatimBaseURL: "https://nominatim.openstreetmap.org",
		ORSBaseURL:       "https://api.openrouteservice.org",
		GeocodeTimeout:   5 * time.Second,
		RouteTimeout:     15 * time.Second,
		FetchTimeout:     10 * time.Second,
		FetchRetries:     2,
		CORSOrigins:      []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Load reads .env (best-effort) and the environment, validating once at
// startup so bad values fail the process instead of a request.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	var errs []error

	setString(&cfg.AppAddr, "APP_ADDR")
	setString(&cfg.GinMode, "GIN_MODE")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.SiteBaseURL, "SITE_BASE_URL")
	setDuration(&cfg.ShutdownTimeout, "SHUTDOWN_TIMEOUT", &errs)

	setString(&cfg.DBUser, "DB_USER")
	cfg.DBPass = os.Getenv("DB_PASS")
	setString(&cfg.DBHost, "DB_HOST")
	setString(&cfg.DBName, "DB_NAME")

	setString(&cfg.JWTSecret, "JWT_SECRET")
	setDuration(&cfg.TokenTTL, "TOKEN_TTL", &errs)
	setDuration(&cfg.SessionCacheTTL, "SESSION_CACHE_TTL", &errs)

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = splitAndTrim(v)
	}
	setString(&cfg.KafkaTopic, "KAFKA_TOPIC")

	setString(&cfg.NominatimBaseURL, "NOMINATIM_BASE_URL")
	setString(&cfg.ORSBaseURL, "ORS_BASE_URL")
	cfg.ORSAPIKey = strings.TrimSpace(os.Getenv("ORS_API_KEY"))
	setDuration(&cfg.GeocodeTimeout, "GEOCODE_TIMEOUT", &errs)
	setDuration(&cfg.RouteTimeout, "ROUTE_TIMEOUT", &errs)
	setDuration(&cfg.FetchTimeout, "FETCH_TIMEOUT", &errs)
	setInt(&cfg.FetchRetries, "FETCH_RETRIES", &errs)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitAndTrim(v)
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, fmt.Errorf("JWT_SECRET is required"))
	}
	if cfg.FetchRetries < 1 {
		errs = append(errs, fmt.Errorf("FETCH_RETRIES must be >= 1"))
	}

	return cfg, errors.Join(errs...)
}

func setString(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func setDuration(target *time.Duration, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = d
	}
}

func setInt(target *int, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = i
	}
}

func splitAndTrim(v string) []string {
	raw := strings.Split(v, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
