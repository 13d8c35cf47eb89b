package config

import (
	"errors"
	"fmt"

	"github.com/rickgao/coinpulse/internal/symbols"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.API.RestURL == "" {
		return errors.New("api.rest_url is required")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be > 0")
	}

	if _, err := symbols.NewTable(c.Symbols); err != nil {
		return err
	}

	if c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be > 0")
	}

	switch c.Cache.Backend {
	case BackendMemory:
	case BackendPostgres:
		if err := c.Database.Postgres.validate("database.postgres"); err != nil {
			return err
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required")
		}
		if c.Redis.DB < 0 {
			return errors.New("redis.db must be >= 0")
		}
	default:
		return fmt.Errorf("cache.backend must be one of memory, postgres, redis, got %q", c.Cache.Backend)
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be > 0")
	}

	if c.Connectivity.Interval <= 0 {
		return errors.New("connectivity.interval must be > 0")
	}
	if c.Connectivity.LostAfter < 1 {
		return errors.New("connectivity.lost_after must be >= 1")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
