package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Booking   BookingConfig
	Scoring   ScoringConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Port          string
	Env           string
	Timezone      string
	LogLevel      string
	AllowedOrigin string
}

type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxIdleConns int
	MaxOpenConns int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// RateLimitConfig keys requests by client IP. X-Forwarded-For is honoured only when the
// direct peer is listed in TrustedProxies (IPs or CIDRs).
type RateLimitConfig struct {
	Limit          int
	Window         time.Duration
	TrustedProxies []string
}

type CacheConfig struct {
	StatsTTL time.Duration
}

// BookingConfig relaxes booking rules for data entry of past visits.
type BookingConfig struct {
	AllowPastDates bool
}

// ScoringConfig tunes the risk models without touching their lookup tables.
type ScoringConfig struct {
	SevereSymptomMultiplier float64
	MaxAlerts               int
}

type JobsConfig struct {
	Enabled    bool
	DigestSpec string
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required outside development")

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_TIMEZONE", "America/Lima")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGIN", "*")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "citas_medicas")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")
	v.SetDefault("JWT_REFRESH_EXPIRY", "168h")

	v.SetDefault("RATE_LIMIT_LIMIT", 5)
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("RATE_LIMIT_TRUSTED_PROXIES", "")

	v.SetDefault("CACHE_STATS_TTL", "30s")

	v.SetDefault("BOOKING_ALLOW_PAST_DATES", false)

	v.SetDefault("SCORING_SEVERE_SYMPTOM_MULTIPLIER", 0.6)
	v.SetDefault("SCORING_MAX_ALERTS", 50)

	v.SetDefault("JOBS_ENABLED", false)
	v.SetDefault("JOBS_DIGEST_SPEC", "5 0 * * *")
}

// LoadConfig reads .env when present and lets environment variables override it.
func LoadConfig() (*Config, error) {
	return load(".env")
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:          v.GetString("APP_PORT"),
			Env:           v.GetString("APP_ENV"),
			Timezone:      v.GetString("APP_TIMEZONE"),
			LogLevel:      v.GetString("LOG_LEVEL"),
			AllowedOrigin: v.GetString("CORS_ALLOWED_ORIGIN"),
		},
		DB: DBConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			AccessExpiry:  durationOr(v, "JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: durationOr(v, "JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Limit:          v.GetInt("RATE_LIMIT_LIMIT"),
			Window:         durationOr(v, "RATE_LIMIT_WINDOW", 15*time.Minute),
			TrustedProxies: splitList(v.GetString("RATE_LIMIT_TRUSTED_PROXIES")),
		},
		Cache: CacheConfig{
			StatsTTL: durationOr(v, "CACHE_STATS_TTL", 30*time.Second),
		},
		Booking: BookingConfig{
			AllowPastDates: v.GetBool("BOOKING_ALLOW_PAST_DATES"),
		},
		Scoring: ScoringConfig{
			SevereSymptomMultiplier: v.GetFloat64("SCORING_SEVERE_SYMPTOM_MULTIPLIER"),
			MaxAlerts:               v.GetInt("SCORING_MAX_ALERTS"),
		},
		Jobs: JobsConfig{
			Enabled:    v.GetBool("JOBS_ENABLED"),
			DigestSpec: v.GetString("JOBS_DIGEST_SPEC"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// durationOr falls back when the value is not a valid Go duration.
func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}

// splitList reads a comma separated value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" && c.App.Env != "development" {
		return ErrMissingJWTSecret
	}
	return nil
}

// Location resolves the clinic timezone, defaulting to UTC when unknown.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
