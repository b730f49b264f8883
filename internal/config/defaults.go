package config

import "time"

const defaultPort = 8080

const defaultLogLevel = "info"

var defaultDB = DB{
	Host:             "127.0.0.1",
	Port:             "5432",
	User:             "myuser",
	Pass:             "mypassword",
	Name:             "test_db",
	AutoMigrate:      true,
	OperationTimeout: 3 * time.Second,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Backend:    RateLimitBackendMemory,
	Requests:   5,
	Window:     time.Minute,
	TTL:        10 * time.Minute,
	MaxClients: 100_000,
}

var defaultRedis = Redis{
	Addr: "127.0.0.1:6379",
}

const defaultCourierTopic = "couriers.events"

var defaultPprof = PprofConfig{
	Addr: "127.0.0.1:6060",
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultRateLimit returns the default throttling settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultPprof returns the default profiling listener settings.
func DefaultPprof() PprofConfig {
	return defaultPprof
}

// DefaultRedis returns the default redis settings.
func DefaultRedis() Redis {
	return defaultRedis
}
