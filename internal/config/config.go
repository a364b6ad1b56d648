package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Ledger      LedgerConfig      `yaml:"ledger"`
	RabbitMQ    RabbitMQConfig    `yaml:"rabbitmq"`
	Gateway     GatewayConfig     `yaml:"gateway"`
	Acquisition AcquisitionConfig `yaml:"acquisition"`
	Sync        SyncConfig        `yaml:"sync"`
	Network     NetworkConfig     `yaml:"network"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	API         APIConfig         `yaml:"api"`
	Credentials CredentialsConfig `yaml:"credentials"`
	LogLevel    string            `yaml:"log_level"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type LedgerConfig struct {
	Driver   string         `yaml:"driver"`
	Database DatabaseConfig `yaml:"database"`
	Path     string         `yaml:"path"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type RabbitMQConfig struct {
	// URL left empty disables status publishing and push observation.
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`

	NotifyExchange string `yaml:"notify_exchange"`
	NotifyQueue    string `yaml:"notify_queue"`
}

type GatewayConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Port      int           `yaml:"port"`
	APIKey    string        `yaml:"api_key"`
	Username  string        `yaml:"username"`
	Password  string        `yaml:"password"`
	Timeout   time.Duration `yaml:"timeout"`
	BatchSize int           `yaml:"batch_size"`
	Retry     RetryConfig   `yaml:"retry"`
}

type AcquisitionConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Retry   RetryConfig   `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

type SyncConfig struct {
	UserID     string   `yaml:"user_id"`
	DeviceID   string   `yaml:"device_id"`
	AppVersion string   `yaml:"app_version"`
	Frequency  string   `yaml:"frequency"`
	DataTypes  []string `yaml:"data_types"`

	BatchSize  int `yaml:"batch_size"`
	QueryLimit int `yaml:"query_limit"`

	// Retry is the page-level policy. MaxBackoff of zero leaves it uncapped.
	Retry RetryConfig `yaml:"retry"`

	DefaultLookback  time.Duration `yaml:"default_lookback"`
	SettleDelay      time.Duration `yaml:"settle_delay"`
	RetentionDays    int           `yaml:"retention_days"`
	CleanupInterval  time.Duration `yaml:"cleanup_interval"`
	HistoryLimit     int           `yaml:"history_limit"`
	LockFile         string        `yaml:"lock_file"`
	BackgroundWindow time.Duration `yaml:"background_window"`
}

type NetworkConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
}

type TelemetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Endpoint    string        `yaml:"endpoint"`
	Insecure    bool          `yaml:"insecure"`
	Interval    time.Duration `yaml:"interval"`
	ServiceName string        `yaml:"service_name"`
}

type APIConfig struct {
	Listen string `yaml:"listen"`
}

type CredentialsConfig struct {
	Keyring bool   `yaml:"keyring"`
	Service string `yaml:"service"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Ledger.Driver == "" {
		c.Ledger.Driver = DriverSQLite
	}
	if c.Ledger.Path == "" {
		c.Ledger.Path = "data/healthsync.db"
	}
	if c.Ledger.Database.Port == 0 {
		c.Ledger.Database.Port = 5432
	}
	if c.Ledger.Database.SSLMode == "" {
		c.Ledger.Database.SSLMode = "disable"
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "healthsync"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "sync.status"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "sync_status"
	}
	if c.RabbitMQ.NotifyExchange == "" {
		c.RabbitMQ.NotifyExchange = "healthsync.samples"
	}
	if c.RabbitMQ.NotifyQueue == "" {
		c.RabbitMQ.NotifyQueue = "new_samples"
	}
	if c.Gateway.Timeout == 0 {
		c.Gateway.Timeout = 30 * time.Second
	}
	if c.Gateway.BatchSize == 0 {
		c.Gateway.BatchSize = 100
	}
	setRetryDefaults(&c.Gateway.Retry, 5, time.Second, 16*time.Second)
	if c.Acquisition.Timeout == 0 {
		c.Acquisition.Timeout = 30 * time.Second
	}
	setRetryDefaults(&c.Acquisition.Retry, 3, time.Second, 30*time.Second)
	if c.Sync.Frequency == "" {
		c.Sync.Frequency = "hourly"
	}
	if c.Sync.AppVersion == "" {
		c.Sync.AppVersion = "1.0.0"
	}
	if c.Sync.BatchSize == 0 {
		c.Sync.BatchSize = 100
	}
	if c.Sync.QueryLimit == 0 {
		c.Sync.QueryLimit = 1000
	}
	setRetryDefaults(&c.Sync.Retry, 5, time.Second, 0)
	if c.Sync.DefaultLookback == 0 {
		c.Sync.DefaultLookback = 24 * time.Hour
	}
	if c.Sync.SettleDelay == 0 {
		c.Sync.SettleDelay = 100 * time.Millisecond
	}
	if c.Sync.RetentionDays == 0 {
		c.Sync.RetentionDays = 30
	}
	if c.Sync.CleanupInterval == 0 {
		c.Sync.CleanupInterval = 24 * time.Hour
	}
	if c.Sync.HistoryLimit == 0 {
		c.Sync.HistoryLimit = 50
	}
	if c.Sync.BackgroundWindow == 0 {
		c.Sync.BackgroundWindow = 30 * time.Second
	}
	if c.Network.Interval == 0 {
		c.Network.Interval = 30 * time.Second
	}
	if c.Network.Timeout == 0 {
		c.Network.Timeout = 5 * time.Second
	}
	if c.Telemetry.Interval == 0 {
		c.Telemetry.Interval = 60 * time.Second
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "healthsync"
	}
	if c.API.Listen == "" {
		c.API.Listen = "127.0.0.1:8089"
	}
	if c.Credentials.Service == "" {
		c.Credentials.Service = "healthsync"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func setRetryDefaults(r *RetryConfig, attempts int, initial, maxBackoff time.Duration) {
	if r.MaxAttempts == 0 {
		r.MaxAttempts = attempts
	}
	if r.InitialBackoff == 0 {
		r.InitialBackoff = initial
	}
	if r.MaxBackoff == 0 {
		r.MaxBackoff = maxBackoff
	}
}

func (c *Config) validate() error {
	switch c.Ledger.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown ledger driver %q", c.Ledger.Driver)
	}
	if c.Sync.BatchSize < 0 || c.Sync.BatchSize > 100 {
		return fmt.Errorf("sync.batch_size must be between 1 and 100, got %d", c.Sync.BatchSize)
	}
	if _, err := ParseFrequency(c.Sync.Frequency); err != nil {
		return err
	}
	if _, err := ParseDataTypes(c.Sync.DataTypes); err != nil {
		return err
	}
	return nil
}
