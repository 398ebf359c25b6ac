// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Snowflake SnowflakeConfig `mapstructure:"snowflake"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string        `mapstructure:"level"`
	Dev    bool          `mapstructure:"dev"`
	File   string        `mapstructure:"file"`
	MaxAge time.Duration `mapstructure:"max_age"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConns       int           `mapstructure:"max_conns"`
	Timeout        time.Duration `mapstructure:"timeout"`
	TimeZone       string        `mapstructure:"timezone"`
	ClientEncoding string        `mapstructure:"client_encoding"`
}

// KafkaConfig enables event publishing when Brokers is non-empty.
type KafkaConfig struct {
	Brokers        []string      `mapstructure:"brokers"`
	TopicPrefix    string        `mapstructure:"topic_prefix"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

type SnowflakeConfig struct {
	Node int64 `mapstructure:"node"`
}

type CORSConfig struct {
	AllowedOrigin string `mapstructure:"allowed_origin"`
}

// Load reads configuration from environment variables over typed defaults.
// Callers are expected to have loaded any .env file beforehand.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
		if cfg.Log.Dev {
			cfg.Log.Level = "debug"
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("log.level", "")
	v.SetDefault("log.dev", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_age", 7*24*time.Hour)

	v.SetDefault("store.driver", DriverMemory)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 5)
	v.SetDefault("database.timeout", 5*time.Second)
	v.SetDefault("database.timezone", "")
	v.SetDefault("database.client_encoding", "")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic_prefix", "exercise-tracker")
	v.SetDefault("kafka.publish_timeout", 2*time.Second)

	v.SetDefault("snowflake.node", 1)

	v.SetDefault("cors.allowed_origin", "*")
}

func bindEnvs(v *viper.Viper) error {
	// PORT is what the original deployment (and most PaaS) sets.
	if err := v.BindEnv("server.port", "SERVER_PORT", "PORT"); err != nil {
		return err
	}
	keys := []string{
		"server.host",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.shutdown_timeout",
		"log.level",
		"log.dev",
		"log.file",
		"log.max_age",
		"store.driver",
		"database.url",
		"database.max_conns",
		"database.timeout",
		"database.timezone",
		"database.client_encoding",
		"kafka.brokers",
		"kafka.topic_prefix",
		"kafka.publish_timeout",
		"snowflake.node",
		"cors.allowed_origin",
	}
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return err
		}
	}
	return nil
}

// Validate ensures the configuration is usable.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	if c.Snowflake.Node < 0 || c.Snowflake.Node > 1023 {
		return fmt.Errorf("snowflake.node out of range: %d", c.Snowflake.Node)
	}
	return nil
}

// ServerAddr returns host:port for HTTP server binding.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// KafkaEnabled reports whether any broker is configured.
func (c Config) KafkaEnabled() bool {
	for _, b := range c.Kafka.Brokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}
