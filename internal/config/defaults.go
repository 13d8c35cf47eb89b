package config

import (
	"time"

	"github.com/rickgao/coinpulse/internal/symbols"
)

// Default values for optional configuration fields.
const (
	DefaultRestURL              = "https://api-pub.bitfinex.com/v2"
	DefaultAPITimeout           = 10 * time.Second
	DefaultCacheTTL             = 5 * time.Second
	DefaultBackend              = BackendMemory
	DefaultDBPort               = 5432
	DefaultDBSSLMode            = "prefer"
	DefaultMaxConns             = 4
	DefaultMinConns             = 1
	DefaultRedisAddr            = "localhost:6379"
	DefaultRedisKey             = "coinpulse:tickers"
	DefaultPollInterval         = 5 * time.Second
	DefaultConnectivityInterval = 10 * time.Second
	DefaultConnectivityTimeout  = 3 * time.Second
	DefaultLostAfter            = 3
	DefaultServerPort           = 8080
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "text"
)

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	// API defaults
	if c.API.RestURL == "" {
		c.API.RestURL = DefaultRestURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	if len(c.Symbols) == 0 {
		c.Symbols = symbols.DefaultPairs()
	}

	// Cache defaults
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = DefaultBackend
	}

	applyDBDefaults(&c.Database.Postgres)

	// Redis defaults
	if c.Redis.Addr == "" {
		c.Redis.Addr = DefaultRedisAddr
	}
	if c.Redis.Key == "" {
		c.Redis.Key = DefaultRedisKey
	}

	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}

	// Connectivity defaults
	if c.Connectivity.Interval == 0 {
		c.Connectivity.Interval = DefaultConnectivityInterval
	}
	if c.Connectivity.Timeout == 0 {
		c.Connectivity.Timeout = DefaultConnectivityTimeout
	}
	if c.Connectivity.LostAfter == 0 {
		c.Connectivity.LostAfter = DefaultLostAfter
	}

	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
