package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Rate limiter backends.
const (
	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// Config stores service settings.
type Config struct {
	Port      int
	LogLevel  string
	DB        DB
	RateLimit RateLimit
	Redis     Redis
	Kafka     Kafka
	Pprof     PprofConfig
}

// DB stores PostgreSQL settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string

	AutoMigrate      bool
	OperationTimeout time.Duration
}

// DSN builds a postgres connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// RateLimit stores per-client throttling settings.
type RateLimit struct {
	Enabled    bool
	Backend    string
	Requests   int           // requests allowed per window
	Window     time.Duration // sliding window length
	TTL        time.Duration // idle client eviction for the memory backend
	MaxClients int           // 0 means unbounded
}

// Redis stores the redis connection used by the redis rate limiter.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Kafka stores courier event publishing settings. Empty Brokers disables publishing.
type Kafka struct {
	Brokers      []string
	CourierTopic string
}

// PprofConfig stores the profiling listener settings. Loopback clients need
// no credentials; anyone else must send User/Pass as basic auth.
type PprofConfig struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:      defaultPort,
		LogLevel:  defaultLogLevel,
		DB:        defaultDB,
		RateLimit: defaultRateLimit,
		Redis:     defaultRedis,
		Kafka:     Kafka{CourierTopic: defaultCourierTopic},
		Pprof:     defaultPprof,
	}

	if err := loadEnv(cfg); err != nil {
		return nil, err
	}

	fs := pflag.CommandLine
	// go test передает свои флаги, их пропускаем
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	fs.BoolVar(&cfg.DB.AutoMigrate, "db-auto-migrate", cfg.DB.AutoMigrate, "create the couriers table on startup")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnv(cfg *Config) error {
	var err error
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return err
	}
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)

	cfg.DB.Host = envString("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = envString("POSTGRES_PORT", cfg.DB.Port)
	if _, err := strconv.Atoi(cfg.DB.Port); err != nil {
		return fmt.Errorf("invalid POSTGRES_PORT %q: %w", cfg.DB.Port, err)
	}
	cfg.DB.User = envString("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = envString("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = envString("POSTGRES_DB", cfg.DB.Name)
	if cfg.DB.AutoMigrate, err = envBool("DB_AUTO_MIGRATE", cfg.DB.AutoMigrate); err != nil {
		return err
	}
	if cfg.DB.OperationTimeout, err = envDuration("DB_OPERATION_TIMEOUT", cfg.DB.OperationTimeout); err != nil {
		return err
	}

	rl := &cfg.RateLimit
	if rl.Enabled, err = envBool("RATE_LIMIT_ENABLED", rl.Enabled); err != nil {
		return err
	}
	rl.Backend = strings.ToLower(envString("RATE_LIMIT_BACKEND", rl.Backend))
	if rl.Requests, err = envInt("RATE_LIMIT_REQUESTS", rl.Requests); err != nil {
		return err
	}
	if rl.Window, err = envDuration("RATE_LIMIT_WINDOW", rl.Window); err != nil {
		return err
	}
	if rl.TTL, err = envDuration("RATE_LIMIT_TTL", rl.TTL); err != nil {
		return err
	}
	if rl.MaxClients, err = envInt("RATE_LIMIT_MAX_CLIENTS", rl.MaxClients); err != nil {
		return err
	}

	cfg.Redis.Addr = envString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envString("REDIS_PASSWORD", cfg.Redis.Password)
	if cfg.Redis.DB, err = envInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return err
	}

	cfg.Kafka.Brokers = splitList(envString("KAFKA_BROKERS", ""))
	cfg.Kafka.CourierTopic = envString("KAFKA_COURIER_TOPIC", cfg.Kafka.CourierTopic)

	if cfg.Pprof.Enabled, err = envBool("PPROF_ENABLED", cfg.Pprof.Enabled); err != nil {
		return err
	}
	cfg.Pprof.Addr = envString("PPROF_ADDR", cfg.Pprof.Addr)
	cfg.Pprof.User = envString("PPROF_USER", cfg.Pprof.User)
	cfg.Pprof.Pass = envString("PPROF_PASSWORD", cfg.Pprof.Pass)
	return nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.DB.OperationTimeout <= 0 {
		return fmt.Errorf("invalid DB_OPERATION_TIMEOUT: %s", c.DB.OperationTimeout)
	}
	if c.Pprof.Enabled {
		if _, _, err := net.SplitHostPort(c.Pprof.Addr); err != nil {
			return fmt.Errorf("invalid PPROF_ADDR %q: %w", c.Pprof.Addr, err)
		}
	}
	rl := c.RateLimit
	if !rl.Enabled {
		return nil
	}
	switch rl.Backend {
	case RateLimitBackendMemory:
	case RateLimitBackendRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis rate limiter")
		}
	default:
		return fmt.Errorf("invalid RATE_LIMIT_BACKEND: %q", rl.Backend)
	}
	if rl.Requests <= 0 {
		return fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %d", rl.Requests)
	}
	if rl.Window <= 0 {
		return fmt.Errorf("invalid RATE_LIMIT_WINDOW: %s", rl.Window)
	}
	if rl.MaxClients < 0 {
		return fmt.Errorf("invalid RATE_LIMIT_MAX_CLIENTS: %d", rl.MaxClients)
	}
	return nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
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
