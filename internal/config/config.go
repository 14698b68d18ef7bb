package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvProduction = "production"

	defaultTokenTTL = 7 * 24 * time.Hour
)

type Config struct {
	ServiceName string
	ServerPort  string
	Environment string
	LogLevel    string

	DatabaseURL string

	JWTSecret    []byte
	JWTExpiresIn time.Duration

	FrontendURLs  []string
	AuthRateLimit float64

	KafkaBrokers []string

	ESURL      string
	ESUsername string
	ESPassword string
	ESIndex    string
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "bag-shop"),
		ServerPort:  EnvDefault("SERVER_PORT", "8080"),
		Environment: EnvDefault("APP_ENV", "development"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:    []byte(os.Getenv("JWT_SECRET")),
		JWTExpiresIn: EnvDurationDefault("JWT_EXPIRES_IN", defaultTokenTTL),

		FrontendURLs:  CSV(EnvDefault("FRONTEND_URL", "http://localhost:5173")),
		AuthRateLimit: EnvFloatDefault("AUTH_RATE_LIMIT", 5),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUsername: os.Getenv("ES_USERNAME"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "bags"),
	}
}

func (c Config) Production() bool {
	return c.Environment == EnvProduction
}

// Addr accepts both "8080" and ":8080".
func (c Config) Addr() string {
	if strings.HasPrefix(c.ServerPort, ":") {
		return c.ServerPort
	}
	return ":" + c.ServerPort
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvFloatDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	d, err := ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// ParseDuration extends time.ParseDuration with a whole-day suffix, so "7d" works.
func ParseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(v)
}
