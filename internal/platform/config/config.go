package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	liststrings "bloodlink/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr            string
	Environment     string
	LogLevel        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	ChatbotFile     string
	Postgres        PostgresConfig
	Redis           RedisConfig
	Auth            AuthConfig
	Kafka           KafkaConfig
	Rules           RulesConfig
}

// PostgresConfig selects the durable store. An empty DSN keeps everything in memory.
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrateOnStart  bool
}

// RedisConfig configures the cooldown and token revocation backend.
// An empty URL falls back to in-memory implementations.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type AuthConfig struct {
	JWTSigningKey  string
	JWTIssuer      string
	JWTAudience    string
	AccessTokenTTL time.Duration
	BcryptCost     int
	AdminToken     string
}

// KafkaConfig enables the emergency notifier. No brokers means log-only notifications.
type KafkaConfig struct {
	Brokers        []string
	EmergencyTopic string
	ClientID       string
	CreateTopic    bool
	NotifyTimeout  time.Duration
}

// RulesConfig holds tunable domain constants.
type RulesConfig struct {
	SeekerCooldown        time.Duration
	EligibilityStreamTick time.Duration
	DefaultSearchLimit    int
}

const devSigningKey = "dev-secret-key-change-in-production"

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var errs []string
	dur := func(key string, def time.Duration) time.Duration {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid duration %q", key, v))
			return def
		}
		return d
	}
	num := func(key string, def int) int {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Sprintf("%s: invalid integer %q", key, v))
			return def
		}
		return n
	}

	cfg := Server{
		Addr:            getenv("BLOODLINK_ADDR", ":8080"),
		Environment:     getenv("BLOODLINK_ENV", "development"),
		LogLevel:        getenv("BLOODLINK_LOG_LEVEL", "info"),
		RequestTimeout:  dur("BLOODLINK_REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: dur("BLOODLINK_SHUTDOWN_TIMEOUT", 10*time.Second),
		ChatbotFile:     os.Getenv("BLOODLINK_CHATBOT_FILE"),
		Postgres: PostgresConfig{
			DSN:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    num("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    num("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: dur("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
			MigrateOnStart:  os.Getenv("DATABASE_MIGRATE_ON_START") == "true",
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     num("REDIS_POOL_SIZE", 10),
			MinIdleConns: num("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  dur("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  dur("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: dur("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Auth: AuthConfig{
			JWTSigningKey:  getenv("JWT_SIGNING_KEY", devSigningKey),
			JWTIssuer:      getenv("JWT_ISSUER", "bloodlink"),
			JWTAudience:    getenv("JWT_AUDIENCE", "bloodlink-api"),
			AccessTokenTTL: dur("ACCESS_TOKEN_TTL", 24*time.Hour),
			BcryptCost:     num("BCRYPT_COST", 10),
			AdminToken:     os.Getenv("ADMIN_API_TOKEN"),
		},
		Kafka: KafkaConfig{
			Brokers:        liststrings.SplitList([]string{os.Getenv("KAFKA_BROKERS")}, nil),
			EmergencyTopic: getenv("KAFKA_EMERGENCY_TOPIC", "bloodlink.emergency.created"),
			ClientID:       getenv("KAFKA_CLIENT_ID", "bloodlink"),
			CreateTopic:    os.Getenv("KAFKA_CREATE_TOPIC") == "true",
			NotifyTimeout:  dur("KAFKA_NOTIFY_TIMEOUT", 5*time.Second),
		},
		Rules: RulesConfig{
			SeekerCooldown:        dur("SEEKER_COOLDOWN", 30*time.Second),
			EligibilityStreamTick: dur("ELIGIBILITY_STREAM_TICK", time.Second),
			DefaultSearchLimit:    num("DONOR_SEARCH_LIMIT", 50),
		},
	}

	if cfg.Environment == "production" && cfg.Auth.JWTSigningKey == devSigningKey {
		errs = append(errs, "JWT_SIGNING_KEY must be set in production")
	}
	if len(errs) > 0 {
		return Server{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
