package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Bank      BankConfig      `mapstructure:"bank"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Ops       OpsConfig       `mapstructure:"ops"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	InfoDelay       time.Duration `mapstructure:"info_delay"` // pause after informational lines
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the TCP listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

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
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// RateLimitConfig bounds new connections per remote IP. Requires Redis.
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Window  time.Duration `mapstructure:"window"`
}

// BankConfig carries the banking policy. Money values are decimal strings.
type BankConfig struct {
	InitialReserve      string `mapstructure:"initial_reserve"`
	StartingBalance     string `mapstructure:"starting_balance"`
	MinWithdrawal       string `mapstructure:"min_withdrawal"`
	MaxWithdrawal       string `mapstructure:"max_withdrawal"`
	PINLength           int    `mapstructure:"pin_length"`
	MaxPINAttempts      int    `mapstructure:"max_pin_attempts"`
	MaxAmountAttempts   int    `mapstructure:"max_amount_attempts"`
	MinIdentifierLength int    `mapstructure:"min_identifier_length"`
	CurrencySymbol      string `mapstructure:"currency_symbol"`
}

type AuditConfig struct {
	ClientFile string `mapstructure:"client_file"` // every event
	BankFile   string `mapstructure:"bank_file"`   // withdraw/deposit only
	Persist    bool   `mapstructure:"persist"`     // also write to audit_events (postgres only)
}

type MonitorConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

type OpsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// Addr returns the ops HTTP listen address.
func (o OpsConfig) Addr() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
	File   string `mapstructure:"file"`   // empty disables the log file
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: ATM_.
// Nested keys use underscore: ATM_SERVER_PORT, ATM_DATABASE_HOST, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 65432)
	v.SetDefault("server.info_delay", "100ms")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "bank")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("ratelimit.enabled", false)
	v.SetDefault("ratelimit.limit", 20)
	v.SetDefault("ratelimit.window", "1m")
	v.SetDefault("bank.initial_reserve", "10000.00")
	v.SetDefault("bank.starting_balance", "1000.00")
	v.SetDefault("bank.min_withdrawal", "100")
	v.SetDefault("bank.max_withdrawal", "5000")
	v.SetDefault("bank.pin_length", 5)
	v.SetDefault("bank.max_pin_attempts", 5)
	v.SetDefault("bank.max_amount_attempts", 5)
	v.SetDefault("bank.min_identifier_length", 5)
	v.SetDefault("bank.currency_symbol", "₹")
	v.SetDefault("audit.client_file", "client.csv")
	v.SetDefault("audit.bank_file", "bank.csv")
	v.SetDefault("audit.persist", false)
	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.interval", "60s")
	v.SetDefault("ops.enabled", false)
	v.SetDefault("ops.host", "127.0.0.1")
	v.SetDefault("ops.port", 8081)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.file", "bank_server.log")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: ATM_DATABASE_HOST -> database.host
	v.SetEnvPrefix("ATM")
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

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	if c.RateLimit.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("ratelimit requires redis.enabled")
	}
	if c.Bank.PINLength <= 0 || c.Bank.MaxPINAttempts <= 0 {
		return fmt.Errorf("bank.pin_length and bank.max_pin_attempts must be positive")
	}
	return nil
}
