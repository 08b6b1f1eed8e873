package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Snapshot  SnapshotConfig  `json:"snapshot"`
	Ledger    LedgerConfig    `json:"ledger"`
	Session   SessionConfig   `json:"session"`
	RateLimit RateLimitConfig `json:"rate_limit"`
}

type ServerConfig struct {
	Host         string        `json:"host"`
	Port         string        `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
	Environment  string        `json:"environment"`
}

// SnapshotConfig points at the Redis instance holding the local fallback
// snapshot (one JSON array under a fixed key plus an id counter).
type SnapshotConfig struct {
	Host         string        `json:"host"`
	Port         string        `json:"port"`
	Password     string        `json:"password"`
	DB           int           `json:"db"`
	PoolSize     int           `json:"pool_size"`
	MinIdleConns int           `json:"min_idle_conns"`
	MaxRetries   int           `json:"max_retries"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	TasksKey     string        `json:"tasks_key"`
}

type LedgerConfig struct {
	BridgeURL          string        `json:"bridge_url"`
	ModuleAddress      string        `json:"module_address"`
	RequestTimeout     time.Duration `json:"request_timeout"`
	ProviderGrace      time.Duration `json:"provider_grace"`
	SettleDelay        time.Duration `json:"settle_delay"`
	AddSettleDelay     time.Duration `json:"add_settle_delay"`
	BreakerMaxFailures int           `json:"breaker_max_failures"`
	BreakerTimeout     time.Duration `json:"breaker_timeout"`
}

type SessionConfig struct {
	TokenSecret     string        `json:"token_secret"`
	TokenTTL        time.Duration `json:"token_ttl"`
	NotificationTTL time.Duration `json:"notification_ttl"`
}

type RateLimitConfig struct {
	Enabled        bool    `json:"enabled"`
	RequestsPerSec float64 `json:"requests_per_second"`
	BurstSize      int     `json:"burst_size"`
}

func LoadConfig() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host:         getEnv("HOST", "localhost"),
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
		Snapshot: SnapshotConfig{
			Host:         getEnv("SNAPSHOT_REDIS_HOST", "localhost"),
			Port:         getEnv("SNAPSHOT_REDIS_PORT", "6379"),
			Password:     getEnv("SNAPSHOT_REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("SNAPSHOT_REDIS_DB", 0),
			PoolSize:     getEnvAsInt("SNAPSHOT_REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("SNAPSHOT_REDIS_MIN_IDLE_CONNS", 5),
			MaxRetries:   getEnvAsInt("SNAPSHOT_REDIS_MAX_RETRIES", 3),
			DialTimeout:  getEnvAsDuration("SNAPSHOT_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvAsDuration("SNAPSHOT_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvAsDuration("SNAPSHOT_REDIS_WRITE_TIMEOUT", 3*time.Second),
			TasksKey:     getEnv("SNAPSHOT_TASKS_KEY", "todo:tasks"),
		},
		Ledger: LedgerConfig{
			BridgeURL:          getEnv("WALLET_BRIDGE_URL", "http://localhost:8765"),
			ModuleAddress:      getEnv("MODULE_ADDRESS", "0xc9bc8d634c75078751b213939ddd851065364e3d08fce88b1ec40b19b6984dae"),
			RequestTimeout:     getEnvAsDuration("LEDGER_REQUEST_TIMEOUT", 10*time.Second),
			ProviderGrace:      getEnvAsDuration("PROVIDER_GRACE_PERIOD", 3*time.Second),
			SettleDelay:        getEnvAsDuration("SETTLE_DELAY", 2*time.Second),
			AddSettleDelay:     getEnvAsDuration("ADD_SETTLE_DELAY", 3*time.Second),
			BreakerMaxFailures: getEnvAsInt("LEDGER_BREAKER_MAX_FAILURES", 5),
			BreakerTimeout:     getEnvAsDuration("LEDGER_BREAKER_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			TokenSecret:     getEnv("SESSION_TOKEN_SECRET", "your-secret-key"),
			TokenTTL:        getEnvAsDuration("SESSION_TOKEN_TTL", 12*time.Hour),
			NotificationTTL: getEnvAsDuration("NOTIFICATION_TTL", 5*time.Second),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerSec: getEnvAsFloat("RATE_LIMIT_RPS", 10),
			BurstSize:      getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
	}

	if config.Ledger.ModuleAddress == "" {
		return nil, fmt.Errorf("module address is required")
	}

	if config.Session.TokenSecret == "your-secret-key" && config.Server.Environment == "production" {
		return nil, fmt.Errorf("session token secret must be set in production")
	}

	return config, nil
}

func (c *Config) GetSnapshotAddr() string {
	return fmt.Sprintf("%s:%s", c.Snapshot.Host, c.Snapshot.Port)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
