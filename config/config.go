// Package config loads the process configuration from the environment (and an optional .env file)
// into a Config value that is built once at startup and passed to every component.
package config

import (
	_ "embed"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

const (
	envDatabaseURL = "DATABASE_URL"
	envJWTSecret   = "JWT_SECRET"
	envPort        = "PORT"
)

// ErrMissingEnv is wrapped by Validate when required variables are absent.
var ErrMissingEnv = errors.New("missing required environment variables")

// Config holds everything the server needs at runtime.
type Config struct {
	Listen      string
	Port        int
	DatabaseURL string
	JWTSecret   string

	// Env is "production" in production deployments; internal error detail is hidden there.
	Env       string
	Debug     bool
	LogLevel  LogLevel
	LogFolder string

	// RedisAddr empty means an embedded redis is started for rate limiting.
	RedisAddr          string
	RateLimitPerMinute int

	// TrustedProxies may set X-Forwarded-For / X-Real-IP. Empty trusts no one,
	// so the client address is always the peer address.
	TrustedProxies []string
	// CORSOrigins empty allows every origin.
	CORSOrigins []string

	// missing is filled by Load and reported by Validate.
	missing []string
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

// Load reads .env (if present) and then the process environment.
// It never fails; call Validate to find out whether required values are present.
func Load() *Config {
	_ = godotenv.Load()

	c := &Config{
		Listen:             os.Getenv("LISTEN"),
		DatabaseURL:        os.Getenv(envDatabaseURL),
		JWTSecret:          os.Getenv(envJWTSecret),
		Env:                envString("APP_ENV", "development"),
		Debug:              os.Getenv("DEBUG") == "true",
		LogFolder:          os.Getenv("LOG_FOLDER"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RateLimitPerMinute: envInt("RATE_LIMIT_PER_MINUTE", 30),
		TrustedProxies:     envList("TRUSTED_PROXIES"),
		CORSOrigins:        envList("CORS_ORIGINS"),
	}

	if c.DatabaseURL == "" {
		c.missing = append(c.missing, envDatabaseURL)
	}
	if c.JWTSecret == "" {
		c.missing = append(c.missing, envJWTSecret)
	}
	if port := os.Getenv(envPort); port == "" {
		c.missing = append(c.missing, envPort)
	} else if n, err := strconv.Atoi(port); err == nil {
		c.Port = n
	}

	c.LogLevel = LogLevel(envString("LOG_LEVEL", string(Info)))
	if c.Debug {
		c.LogLevel = Debug
	}
	return c
}

// Validate reports every missing required variable at once, and a port out of range.
func (c *Config) Validate() error {
	if len(c.missing) > 0 {
		return errors.Join(ErrMissingEnv, errors.New(strings.Join(c.missing, ", ")))
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("PORT must be a number between 1 and 65535")
	}
	return nil
}

// IsProduction reports whether internal error detail must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Database parses DatabaseURL.
func (c *Config) Database() (*DatabaseConfig, error) {
	return ParseDatabaseURL(c.DatabaseURL)
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// envList splits a comma separated variable, dropping blanks.
func envList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
