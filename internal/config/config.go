package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultCookieName is the cookie the backend stores the bearer credential in.
const DefaultCookieName = "access_token"

// Config aggregates runtime configuration for the client and the mock API.
type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	Mock    MockConfig
}

// AppConfig identifies the running process.
type AppConfig struct {
	Name string
	Env  string
}

// APIConfig points the client at a Sentimenta backend.
type APIConfig struct {
	BaseURL               string
	RequestTimeoutSeconds int
}

// SessionConfig controls where the credential cookie lives.
type SessionConfig struct {
	CookieName string
	Persist    bool
}

// RedisConfig holds Redis connection values for persisted cookies.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level    string
	Encoding string
	Output   string
}

// MockConfig configures the local stand-in backend.
type MockConfig struct {
	Host                  string
	Port                  string
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	DemoEmail             string
	DemoPassword          string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "moodsync"),
			Env:  getEnv("APP_ENV", "development"),
		},
		API: APIConfig{
			BaseURL:               strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
			RequestTimeoutSeconds: getEnvAsInt("API_REQUEST_TIMEOUT_SECONDS", 15),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE_NAME", DefaultCookieName),
			Persist:    getEnvAsBool("SESSION_PERSIST", false),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "moodsync"),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "console"),
			Output:   getEnv("LOG_OUTPUT", "stderr"),
		},
		Mock: MockConfig{
			Host:                  getEnv("MOCK_HOST", "127.0.0.1"),
			Port:                  getEnv("MOCK_PORT", "8000"),
			JWTSecret:             getEnv("MOCK_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("MOCK_ACCESS_TOKEN_TTL_MINUTES", 720*60),
			BcryptCost:            getEnvAsInt("MOCK_BCRYPT_COST", 10),
			DemoEmail:             getEnv("MOCK_DEMO_EMAIL", "demo@sentimenta.local"),
			DemoPassword:          getEnv("MOCK_DEMO_PASSWORD", "demo-password"),
		},
	}

	if _, err := cfg.API.URL(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// URL parses the base URL. Only http and https are accepted.
func (a APIConfig) URL() (*url.URL, error) {
	u, err := url.Parse(a.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API_BASE_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API_BASE_URL: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid API_BASE_URL: missing host")
	}
	return u, nil
}

// RequestTimeout returns the configured request timeout duration.
func (a APIConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Addr returns the mock API bind address.
func (m MockConfig) Addr() string {
	return fmt.Sprintf("%s:%s", m.Host, m.Port)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
