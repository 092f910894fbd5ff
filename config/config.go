package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Storage        StorageConfig        `mapstructure:"storage"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	JWT            JWTConfig            `mapstructure:"jwt"`
	Paystack       PaystackConfig       `mapstructure:"paystack"`
	Kafka          KafkaConfig          `mapstructure:"kafka"`
	Engine         EngineConfig         `mapstructure:"engine"`
	Reconciliation ReconciliationConfig `mapstructure:"reconciliation"`
	Log            LogConfig            `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// StorageConfig selects the ledger backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // postgres, memory
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// Session limits applied to every pooled connection. Zero leaves the
	// server default.
	StatementTimeout         time.Duration `mapstructure:"statement_timeout"`
	IdleInTransactionTimeout time.Duration `mapstructure:"idle_in_transaction_timeout"`
	ApplicationName          string        `mapstructure:"application_name"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig is used to validate bearer tokens issued by the identity service.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type PaystackConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	SecretKey string        `mapstructure:"secret_key"` // signs webhooks and authorizes verify calls
	Timeout   time.Duration `mapstructure:"timeout"`
	// CallbackURL is where the checkout page sends the customer afterwards.
	CallbackURL string `mapstructure:"callback_url"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"` // empty = effects are only logged
	Topic   string   `mapstructure:"topic"`
}

type EngineConfig struct {
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
}

type ReconciliationConfig struct {
	DedupeTTL   time.Duration `mapstructure:"dedupe_ttl"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	Backoff     time.Duration `mapstructure:"backoff"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from an optional .env file, a config file and
// environment variables. Environment variables override file values.
// Prefix: WLT_. Nested keys use underscore: WLT_DATABASE_HOST, WLT_PAYSTACK_SECRET_KEY, etc.
func Load(path string) (*Config, error) {
	// .env is a convenience for local runs; a missing file is fine.
	_ = godotenv.Load()

	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "wallet_ledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.statement_timeout", "15s")
	v.SetDefault("database.idle_in_transaction_timeout", "30s")
	v.SetDefault("database.application_name", "wallet-ledger")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "wallet-identity")
	v.SetDefault("paystack.base_url", "https://api.paystack.co/")
	v.SetDefault("paystack.secret_key", "")
	v.SetDefault("paystack.timeout", "10s")
	v.SetDefault("paystack.callback_url", "")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "wallet.ledger.effects")
	v.SetDefault("engine.lock_timeout", "5s")
	v.SetDefault("reconciliation.dedupe_ttl", "24h")
	v.SetDefault("reconciliation.max_attempts", 3)
	v.SetDefault("reconciliation.backoff", "100ms")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: WLT_DATABASE_HOST -> database.host
	v.SetEnvPrefix("WLT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
