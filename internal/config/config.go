package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"

	StockPolicyAllowNegative = "allow_negative"
	StockPolicyReject        = "reject"

	StatusPolicyForward = "forward"
	StatusPolicyAny     = "any"
)

type Config struct {
	AppPort string
	AppEnv  string

	StoreBackend string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	RedisAddr     string
	RedisPassword string

	JWTSecret string
	TokenTTL  time.Duration

	StockPolicy  string
	StatusPolicy string

	// AttachOrderUser stores the signed-in caller's id on new orders.
	// Off by default: orders are guest orders with a null userId.
	AttachOrderUser bool

	SeedData      bool
	AdminEmail    string
	AdminPassword string
	AdminName     string

	KafkaBrokers     []string
	OrderEventsTopic string

	CORSOrigin        string
	InternalSecretKey string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:           getEnv("APP_PORT", "8080"),
		AppEnv:            getEnv("APP_ENV", "development"),
		StoreBackend:      getEnv("STORE_BACKEND", BackendMemory),
		DBHost:            os.Getenv("DB_HOST"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		DBPort:            getEnv("DB_PORT", "5432"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenTTL:          24 * time.Hour,
		StockPolicy:       getEnv("STOCK_POLICY", StockPolicyAllowNegative),
		StatusPolicy:      getEnv("STATUS_POLICY", StatusPolicyAny),
		SeedData:          getEnv("SEED_DATA", "true") == "true",
		AttachOrderUser:   getEnv("ATTACH_ORDER_USER", "false") == "true",
		AdminEmail:        getEnv("ADMIN_EMAIL", "admin@test.com"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", "admin123"),
		AdminName:         getEnv("ADMIN_NAME", "María González"),
		OrderEventsTopic:  getEnv("ORDER_EVENTS_TOPIC", "order_events"),
		CORSOrigin:        getEnv("CORS_ORIGIN", "http://localhost:3000"),
		InternalSecretKey: os.Getenv("INTERNAL_SECRET_KEY"),
	}

	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			cfg.TokenTTL = d
		}
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

// Validate reports the first setting that cannot be used to start the server.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.DBHost == "" {
			return errors.New("DB_HOST is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.StockPolicy {
	case StockPolicyAllowNegative, StockPolicyReject:
	default:
		return fmt.Errorf("unknown STOCK_POLICY %q", c.StockPolicy)
	}

	switch c.StatusPolicy {
	case StatusPolicyForward, StatusPolicyAny:
	default:
		return fmt.Errorf("unknown STATUS_POLICY %q", c.StatusPolicy)
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
