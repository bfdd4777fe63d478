// Package config loads startup-only configuration: environment
// variables and an optional .env file (via godotenv) feed viper, which
// supplies defaults for anything unset. Nothing here is re-read after
// Load returns.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DatabaseConfig holds the Postgres connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the libpq connection string pgxpool.ParseConfig expects.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// CacheConfig holds the optional Redis idempotency-cache parameters.
type CacheConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr renders host:port for redis.Options.
func (c CacheConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// BrokerConfig holds the RabbitMQ domain-event publisher parameters.
type BrokerConfig struct {
	Host     string
	Port     string
	User     string
	Password string
}

// URL renders the amqp connection string.
func (b BrokerConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", b.User, b.Password, b.Host, b.Port)
}

// AuditConfig holds the MongoDB audit-trail parameters cmd/worker uses.
type AuditConfig struct {
	URI      string
	Database string
}

// HTTPConfig holds the listen address and request timeout for cmd/api.
type HTTPConfig struct {
	Port    string
	Timeout time.Duration
}

// Config groups every startup-only setting the api and worker binaries
// need.
type Config struct {
	Env      string
	Database DatabaseConfig
	Cache    CacheConfig
	Broker   BrokerConfig
	Audit    AuditConfig
	HTTP     HTTPConfig
}

// Load reads a .env file if present (ignored if absent — production
// deployments set real environment variables instead), then resolves
// every setting through viper with the defaults below.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Absence is expected outside local development; viper's
		// defaults and the real environment still apply.
		_ = err
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("env", "development")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.user", "wallet")
	viper.SetDefault("database.password", "wallet")
	viper.SetDefault("database.name", "wallet")
	viper.SetDefault("database.ssl_mode", "disable")

	viper.SetDefault("cache.host", "localhost")
	viper.SetDefault("cache.port", "6379")
	viper.SetDefault("cache.password", "")
	viper.SetDefault("cache.db", 0)

	viper.SetDefault("broker.host", "localhost")
	viper.SetDefault("broker.port", "5672")
	viper.SetDefault("broker.user", "guest")
	viper.SetDefault("broker.password", "guest")

	viper.SetDefault("audit.uri", "mongodb://localhost:27017")
	viper.SetDefault("audit.database", "wallet_audit")

	viper.SetDefault("http.port", "8080")
	viper.SetDefault("http.timeout", 60*time.Second)

	cfg := &Config{
		Env: viper.GetString("env"),
		Database: DatabaseConfig{
			Host:     viper.GetString("database.host"),
			Port:     viper.GetString("database.port"),
			User:     viper.GetString("database.user"),
			Password: viper.GetString("database.password"),
			Name:     viper.GetString("database.name"),
			SSLMode:  viper.GetString("database.ssl_mode"),
		},
		Cache: CacheConfig{
			Host:     viper.GetString("cache.host"),
			Port:     viper.GetString("cache.port"),
			Password: viper.GetString("cache.password"),
			DB:       viper.GetInt("cache.db"),
		},
		Broker: BrokerConfig{
			Host:     viper.GetString("broker.host"),
			Port:     viper.GetString("broker.port"),
			User:     viper.GetString("broker.user"),
			Password: viper.GetString("broker.password"),
		},
		Audit: AuditConfig{
			URI:      viper.GetString("audit.uri"),
			Database: viper.GetString("audit.database"),
		},
		HTTP: HTTPConfig{
			Port:    viper.GetString("http.port"),
			Timeout: viper.GetDuration("http.timeout"),
		},
	}

	return cfg, nil
}
