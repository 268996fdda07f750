package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName          string
	AppVersion       string
	Environment      string
	HTTPAddr         string
	AuthCookieSecure bool

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Assistant AssistantConfig
	EnvData   EnvDataConfig
	RateLimit RateLimitConfig

	SeedDemoData bool
}

// AssistantConfig configures the remote completion endpoint. When APIKey is
// empty the assistant runs in demo mode and serves canned responses.
type AssistantConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// EnvDataConfig configures the external weather and air quality APIs. Missing
// keys put the service in mock mode.
type EnvDataConfig struct {
	WeatherAPIKey    string
	WeatherBaseURL   string
	AirQualityAPIKey string
}

// RateLimitConfig configures the redis-backed assistant rate limiter.
type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AssistantRate  float64
	AssistantBurst int
}

const (
	defaultAssistantBaseURL = "https://api.openai.com/v1/chat/completions"
	defaultAssistantModel   = "gpt-3.5-turbo"
	defaultWeatherBaseURL   = "https://api.openweathermap.org/data/2.5"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	cfg := Config{
		AppName:          getenv("APP_SERVICE", "carbonctrl"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		AuthCookieSecure: authCookieSecure,
		OTLPEndpoint:     getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "sqlite"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "carbonctrl"),
		DBUser:            getenv("DATABASE_USER", "carbonctrl"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),

		Assistant: AssistantConfig{
			APIKey:  strings.TrimSpace(getenv("OPENAI_API_KEY", "")),
			BaseURL: getenv("OPENAI_BASE_URL", defaultAssistantBaseURL),
			Model:   getenv("OPENAI_MODEL", defaultAssistantModel),
		},
		EnvData: EnvDataConfig{
			WeatherAPIKey:    strings.TrimSpace(getenv("WEATHER_API_KEY", "")),
			WeatherBaseURL:   getenv("WEATHER_BASE_URL", defaultWeatherBaseURL),
			AirQualityAPIKey: strings.TrimSpace(getenv("AIR_QUALITY_API_KEY", "")),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getenvBool("RATELIMIT_ENABLED", false),
			RedisAddr:      strings.TrimSpace(getenv("RATELIMIT_REDIS_ADDR", "")),
			RedisPassword:  getenv("RATELIMIT_REDIS_PASSWORD", ""),
			RedisDB:        getenvInt("RATELIMIT_REDIS_DB", 0),
			AssistantRate:  getenvFloat("RATELIMIT_ASSISTANT_RATE", 0.5),
			AssistantBurst: getenvInt("RATELIMIT_ASSISTANT_BURST", 5),
		},

		SeedDemoData: getenvBool("SEED_DEMO_DATA", true),
	}

	return cfg
}

// DemoMode reports whether the assistant is running without credentials.
func (c AssistantConfig) DemoMode() bool {
	return c.APIKey == ""
}

// MockMode reports whether environmental data is served from canned values.
func (c EnvDataConfig) MockMode() bool {
	return c.WeatherAPIKey == ""
}

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewRewardCatalogHolder),
)

func getenv(key, def string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
