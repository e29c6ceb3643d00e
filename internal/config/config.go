package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Owner bid rule values
const (
	OwnerBidEnforce = "enforce"
	OwnerBidAllow   = "allow"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DBDriver    string // memory, sqlite, mysql or postgres
	DatabaseURL string

	CacheBackend  string // memory or redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret      string
	AccessTokenTTL time.Duration

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	OwnerBidRule   string
	SeedCategories []string
}

// Load reads an optional .env file, then the environment, applying defaults
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit env file path. A missing file is not an error.
func LoadFrom(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}

	ttl, err := time.ParseDuration(getEnv("ACCESS_TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DBDriver:    getEnv("DB_DRIVER", "memory"),
		DatabaseURL: getEnv("DATABASE_URL", "file:auction-house.db?_pragma=busy_timeout(5000)"),

		CacheBackend:  getEnv("CACHE_BACKEND", "memory"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
		AccessTokenTTL: ttl,

		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),

		OwnerBidRule:   getEnv("OWNER_BID_RULE", OwnerBidEnforce),
		SeedCategories: splitList(getEnv("SEED_CATEGORIES", "Furniture,Ceramics,Coins,Clocks,Paintings")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

// EnforceOwnerBidRule reports whether sellers are barred from bidding on their own auctions
func (c *Config) EnforceOwnerBidRule() bool {
	return c.OwnerBidRule == OwnerBidEnforce
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "memory", "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER: unsupported value %q", c.DBDriver)
	}
	switch c.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("CACHE_BACKEND: unsupported value %q", c.CacheBackend)
	}
	switch c.OwnerBidRule {
	case OwnerBidEnforce, OwnerBidAllow:
	default:
		return fmt.Errorf("OWNER_BID_RULE: unsupported value %q", c.OwnerBidRule)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
