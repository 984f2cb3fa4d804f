package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string

	ServerPort int

	DatabaseURL string
	AutoMigrate bool

	JWTSecret          []byte
	JWTIssuer          string
	JWTTTL             time.Duration
	TokenPurgeInterval time.Duration

	LogLevel string

	KafkaBrokers      []string
	KafkaOrderTopic   string
	KafkaProductTopic string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RedisURL string
	CacheTTL time.Duration

	LoginRatePerMinute int
	LoginBurst         int
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "techadict"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		AutoMigrate: EnvBoolDefault("AUTO_MIGRATE", true),

		JWTSecret:          []byte(os.Getenv("JWT_SECRET")),
		JWTIssuer:          EnvDefault("JWT_ISSUER", "techadict.com"),
		JWTTTL:             time.Duration(EnvIntDefault("JWT_TTL_MINUTES", 60)) * time.Minute,
		TokenPurgeInterval: time.Duration(EnvIntDefault("TOKEN_PURGE_INTERVAL_MINUTES", 60)) * time.Minute,

		LogLevel: EnvDefault("LOG_LEVEL", "info"),

		KafkaBrokers:      CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic:   EnvDefault("KAFKA_ORDER_TOPIC", "order_events"),
		KafkaProductTopic: EnvDefault("KAFKA_PRODUCT_TOPIC", "product_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "product"),

		RedisURL: os.Getenv("REDIS_URL"),
		CacheTTL: time.Duration(EnvIntDefault("CACHE_TTL_SECONDS", 300)) * time.Second,

		LoginRatePerMinute: EnvIntDefault("LOGIN_RATE_PER_MINUTE", 30),
		LoginBurst:         EnvIntDefault("LOGIN_BURST", 10),
	}
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

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
