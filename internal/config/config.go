package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RedisAddr string

	// LockWaitTimeout bounds how long an acquire may wait for a contended
	// lock; LockLeaseTime bounds how long a lock may be held before the
	// backend reclaims it.
	LockWaitTimeout time.Duration
	LockLeaseTime   time.Duration
	// LockFailOpen controls the policy for lock-backend transport
	// failures: true proceeds without the lock, false rejects the request.
	LockFailOpen bool
}

// Load reads configuration from the environment, falling back to
// development defaults.
func Load() *Config {
	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "password"),
		DBName:          getEnv("DB_NAME", "account_ledger"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		LockWaitTimeout: getEnvDuration("LOCK_WAIT_TIMEOUT", time.Second),
		LockLeaseTime:   getEnvDuration("LOCK_LEASE_TIME", 15*time.Second),
		LockFailOpen:    getEnvBool("LOCK_FAIL_OPEN", true),
	}
}

func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
