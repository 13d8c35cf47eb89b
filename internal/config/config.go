package config

import (
	"time"

	"github.com/rickgao/coinpulse/internal/symbols"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config is the root configuration for a coinpulse instance.
type Config struct {
	Instance     InstanceConfig     `yaml:"instance"`
	API          APIConfig          `yaml:"api"`
	Symbols      []symbols.Pair     `yaml:"symbols"`
	Cache        CacheConfig        `yaml:"cache"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Poller       PollerConfig       `yaml:"poller"`
	Connectivity ConnectivityConfig `yaml:"connectivity"`
	Server       ServerConfig       `yaml:"server"`
	Log          LogConfig          `yaml:"log"`
}

// InstanceConfig identifies this instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds quote service settings.
type APIConfig struct {
	RestURL string        `yaml:"rest_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// CacheConfig holds the ticker cache policy.
type CacheConfig struct {
	TTL     time.Duration `yaml:"ttl"`
	Backend string        `yaml:"backend"` // memory, postgres or redis
}

// DatabaseConfig holds the Postgres connection used by the postgres backend.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// RedisConfig holds the Redis connection used by the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"` // hash holding the ticker rows
}

// PollerConfig holds refresh loop settings.
type PollerConfig struct {
	Interval time.Duration `yaml:"interval"`
	// RequireSubscribers keeps the loop idle while no feed client is connected.
	RequireSubscribers bool `yaml:"require_subscribers"`
}

// ConnectivityConfig holds connectivity probe settings.
type ConnectivityConfig struct {
	Interval  time.Duration `yaml:"interval"`
	Timeout   time.Duration `yaml:"timeout"`
	LostAfter int           `yaml:"lost_after"` // consecutive failures before LOST
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}
