package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv string
	Port   string

	// Backend base URL, including the /api prefix.
	APIBaseURL string

	// UpstreamTimeout bounds every reconciler fetch so a hung backend
	// degrades to an empty view instead of hanging it.
	UpstreamTimeout time.Duration
	ShutdownTimeout time.Duration

	BreakerTimeout  time.Duration
	BreakerFailures uint32

	RedisAddr       string
	RedisPassword   string
	CatalogCacheTTL time.Duration
	SessionTTL      time.Duration

	// Empty disables reconciliation alerts.
	KafkaBrokers []string
	AlertTopic   string

	StripeSecretKey string
	StripeAPIURL    string

	Currency         string
	CORSAllowOrigins []string
}

func Load() Config {
	return Config{
		AppEnv: getenv("APP_ENV", "local"),
		Port:   getenv("PORT", "8080"),

		APIBaseURL: strings.TrimRight(getenv("API_BASE_URL", "http://localhost:8081/api"), "/"),

		UpstreamTimeout: parseDuration(getenv("UPSTREAM_TIMEOUT", "10s"), 10*time.Second),
		ShutdownTimeout: parseDuration(getenv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),

		BreakerTimeout:  parseDuration(getenv("BREAKER_TIMEOUT", "30s"), 30*time.Second),
		BreakerFailures: parseUint32(getenv("BREAKER_FAILURES", "5"), 5),

		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		CatalogCacheTTL: parseDuration(getenv("CATALOG_CACHE_TTL", "15m"), 15*time.Minute),
		SessionTTL:      parseDuration(getenv("SESSION_TTL", "24h"), 24*time.Hour),

		KafkaBrokers: splitCSV(getenv("KAFKA_BROKERS", "")),
		AlertTopic:   getenv("ALERT_TOPIC", "checkout-reconciliation"),

		StripeSecretKey: getenv("STRIPE_SECRET_KEY", ""),
		StripeAPIURL:    getenv("STRIPE_API_URL", ""),

		Currency:         strings.ToUpper(getenv("CURRENCY", "INR")),
		CORSAllowOrigins: corsOrigins(getenv("CORS_ALLOW_ORIGINS", "*")),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
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

func corsOrigins(v string) []string {
	out := splitCSV(v)
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseUint32(v string, def uint32) uint32 {
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
	if err != nil || n == 0 {
		return def
	}
	return uint32(n)
}
