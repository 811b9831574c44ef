package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds all configuration required by the scheduler processes.
// All values must come from env (or env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App   AppConfig
	Store StoreConfig
	DB    DBConfig
	Redis RedisConfig
	Auth  AuthConfig
	HTTP  HTTPConfig
	Sweep SweepConfig
}

type AppConfig struct {
	Env  string
	Port int
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type StoreConfig struct {
	Driver     string
	SQLitePath string
}

// DBConfig is only consulted when Store.Driver is postgres.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string
}

// RedisConfig is optional. When Host is set, scheduling events are
// appended to a Redis stream instead of memory.
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	EventsMaxLen int64
}

type AuthConfig struct {
	JWTSecret       string
	JWTIssuer       string
	JWTAudience     string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type HTTPConfig struct {
	// RatePerSec limits mutating requests; zero disables the limiter.
	RatePerSec float64
	RateBurst  int
}

// SweepConfig drives the optional job that marks overdue calls as missed.
// An empty Schedule disables it.
type SweepConfig struct {
	Schedule string
	Grace    time.Duration
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = envOr("APP_ENV", "local")
	c.App.Port, parseErrs = optInt(parseErrs, "APP_PORT", 8080)

	c.Store.Driver = strings.ToLower(envOr("STORE_DRIVER", DriverSQLite))
	c.Store.SQLitePath = envOr("SQLITE_PATH", "data/calls.db")

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	c.DB.Port, parseErrs = optInt(parseErrs, "DB_PORT", 5432)
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	c.Redis.Port, parseErrs = optInt(parseErrs, "REDIS_PORT", 6379)
	c.Redis.Password = os.Getenv("REDIS_PASSWORD")
	{
		var n int
		n, parseErrs = optInt(parseErrs, "EVENTS_MAX_LEN", 10000)
		c.Redis.EventsMaxLen = int64(n)
	}

	c.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	c.Auth.JWTIssuer = strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	c.Auth.JWTAudience = strings.TrimSpace(os.Getenv("JWT_AUDIENCE"))
	c.Auth.AccessTokenTTL, parseErrs = optDuration(parseErrs, "JWT_ACCESS_TTL", 0)
	c.Auth.RefreshTokenTTL, parseErrs = optDuration(parseErrs, "JWT_REFRESH_TTL", 0)

	c.HTTP.RatePerSec, parseErrs = optFloat(parseErrs, "API_RATE_PER_SEC", 5)
	c.HTTP.RateBurst, parseErrs = optInt(parseErrs, "API_RATE_BURST", 10)

	c.Sweep.Schedule = strings.TrimSpace(os.Getenv("MISSED_SWEEP_SCHEDULE"))
	c.Sweep.Grace, parseErrs = optDuration(parseErrs, "MISSED_SWEEP_GRACE", 15*time.Minute)

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ApplyDefaults fills values whose default depends on other settings.
func (c *Config) ApplyDefaults() {
	if c.DB.SSLMode == "" && !c.IsProduction() {
		// Local-friendly default; production must be explicit.
		c.DB.SSLMode = "disable"
	}
	if c.Auth.AccessTokenTTL <= 0 {
		c.Auth.AccessTokenTTL = 15 * time.Minute
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		c.Auth.RefreshTokenTTL = 30 * 24 * time.Hour
	}
}

// Validate checks the settings every process needs.
func (c Config) Validate() error {
	var errs []error

	if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite driver"))
		}
	case DriverPostgres:
		errs = append(errs, c.validatePostgres()...)
	case DriverMemory:
		if c.IsProduction() {
			errs = append(errs, errors.New("STORE_DRIVER memory is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be one of sqlite, postgres, memory, got %q", c.Store.Driver))
	}

	if c.Redis.Host != "" {
		if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
			errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
		}
		if c.Redis.EventsMaxLen <= 0 {
			errs = append(errs, fmt.Errorf("EVENTS_MAX_LEN must be positive, got %d", c.Redis.EventsMaxLen))
		}
	}

	if c.HTTP.RatePerSec < 0 {
		errs = append(errs, fmt.Errorf("API_RATE_PER_SEC must not be negative, got %v", c.HTTP.RatePerSec))
	}
	if c.HTTP.RatePerSec > 0 && c.HTTP.RateBurst <= 0 {
		errs = append(errs, fmt.Errorf("API_RATE_BURST must be positive, got %d", c.HTTP.RateBurst))
	}

	if c.Sweep.Schedule != "" {
		if _, err := cron.ParseStandard(c.Sweep.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("MISSED_SWEEP_SCHEDULE is not a valid cron spec: %v", err))
		}
		if c.Sweep.Grace < 0 {
			errs = append(errs, errors.New("MISSED_SWEEP_GRACE must not be negative"))
		}
	}

	return joinErrors(errs)
}

func (c Config) validatePostgres() []error {
	var errs []error
	if c.DB.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.DB.Port <= 0 || c.DB.Port > 65535 {
		errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
	}
	if c.DB.User == "" {
		errs = append(errs, errors.New("DB_USER is required"))
	}
	if c.DB.Name == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.DB.SSLMode == "" {
		errs = append(errs, errors.New("DB_SSLMODE is required in production"))
	} else if !isValidSSLMode(c.DB.SSLMode) {
		errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
	}
	return errs
}

// ValidateHTTP adds the checks only the API process needs.
func (c Config) ValidateHTTP() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.IsProduction() {
		if c.Auth.JWTIssuer == "" {
			errs = append(errs, errors.New("JWT_ISSUER is required in production"))
		}
		if c.Auth.JWTAudience == "" {
			errs = append(errs, errors.New("JWT_AUDIENCE is required in production"))
		}
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		errs = append(errs, errors.New("JWT_REFRESH_TTL must be greater than JWT_ACCESS_TTL"))
	}
	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c Config) RedisEnabled() bool { return c.Redis.Host != "" }

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func optInt(errs []error, key string, def int) (int, []error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, errs
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, append(errs, fmt.Errorf("%s must be an integer, got %q", key, v))
	}
	return n, errs
}

func optFloat(errs []error, key string, def float64) (float64, []error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, errs
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, append(errs, fmt.Errorf("%s must be a number, got %q", key, v))
	}
	return f, errs
}

func optDuration(errs []error, key string, def time.Duration) (time.Duration, []error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, errs
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, append(errs, fmt.Errorf("%s must be a duration, got %q", key, v))
	}
	return d, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
