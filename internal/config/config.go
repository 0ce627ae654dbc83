package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

type Config struct {
	HTTPPort          string        `env:"HTTP_PORT" envDefault:"8080"`
	DBDriver          string        `env:"DB_DRIVER" envDefault:"postgres"`
	PostgresDSN       string        `env:"DATABASE_URL"`
	MongoURI          string        `env:"MONGO_URI"`
	MongoDatabase     string        `env:"MONGO_DATABASE" envDefault:"recruitment"`
	RedisURL          string        `env:"REDIS_URL"`
	JWTSecret         string        `env:"JWT_SECRET"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxIdle     time.Duration `env:"DB_CONN_MAX_IDLE" envDefault:"5m"`
	DBConnMaxLife     time.Duration `env:"DB_CONN_MAX_LIFE" envDefault:"30m"`
	AutoMigrate       bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	CORSAllowedOrigin []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	MaxUploadBytes    int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	SubmitPerMinute   int           `env:"SUBMIT_RATE_LIMIT_PER_MIN" envDefault:"5"`
	TrackPerMinute    int           `env:"TRACK_RATE_LIMIT_PER_MIN" envDefault:"20"`
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}
	return Parse(nil)
}

// Parse builds a Config from environment; nil means the process environment.
func Parse(environment map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBDriver = normalizeDriver(cfg.DBDriver)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	origins := cfg.CORSAllowedOrigin[:0]
	for _, origin := range cfg.CORSAllowedOrigin {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	cfg.CORSAllowedOrigin = origins
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func normalizeDriver(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "postgres", "postgresql", "pq", "pgx":
		return DriverPostgres
	case "mongo", "mongodb":
		return DriverMongo
	case "memory", "mem":
		return DriverMemory
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c Config) Validate() error {
	var problems []string
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	switch c.DBDriver {
	case DriverPostgres:
		if c.PostgresDSN == "" {
			problems = append(problems, "DATABASE_URL is required for the postgres driver")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			problems = append(problems, "MONGO_URI is required for the mongo driver")
		}
	case DriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("DB_DRIVER %q is not supported", c.DBDriver))
	}
	if c.SubmitPerMinute <= 0 {
		problems = append(problems, "SUBMIT_RATE_LIMIT_PER_MIN must be positive")
	}
	if c.TrackPerMinute <= 0 {
		problems = append(problems, "TRACK_RATE_LIMIT_PER_MIN must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		problems = append(problems, "MAX_UPLOAD_BYTES must be positive")
	}
	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
