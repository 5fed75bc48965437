package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	GatewayHTTP      = "http"
	GatewaySimulated = "simulated"
)

type EscrowConfig struct {
	Env         string `yaml:"env" env:"ESCROW_ENV" env-default:"local"`
	Storage     string `yaml:"storage" env:"ESCROW_STORAGE" env-default:"postgres"`
	HTTPServer  `yaml:"http_server"`
	GRPCServer  `yaml:"grpc_server"`
	EscrowDB    `yaml:"escrow_db"`
	Migrations  `yaml:"migrations"`
	Redis       `yaml:"redis"`
	Kafka       `yaml:"kafka"`
	Webhook     `yaml:"notification_webhook"`
	LogConfig   `yaml:"log_config"`
	Escrow      `yaml:"escrow"`
	Gateway     `yaml:"gateway"`
	UserService `yaml:"user_service"`
	Auth        `yaml:"auth"`
	Scheduler   `yaml:"scheduler"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"50051"`
}

type EscrowDB struct {
	Dsn string `yaml:"dsn" env:"ESCROW_DB_DSN"`
}

type Migrations struct {
	Path string `yaml:"path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

type Redis struct {
	Addr           string        `yaml:"addr" env:"REDIS_ADDR"`
	Password       string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB             int           `yaml:"db" env-default:"0"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl" env-default:"24h"`
}

type Kafka struct {
	Brokers            []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	EventsTopic        string   `yaml:"events_topic" env-default:"escrow-events"`
	NotificationsTopic string   `yaml:"notifications_topic" env-default:"escrow-notifications"`
}

// Webhook, when URL is set, receives user notifications instead of Kafka.
type Webhook struct {
	URL     string        `yaml:"url" env:"NOTIFICATION_WEBHOOK_URL"`
	Secret  string        `yaml:"secret" env:"NOTIFICATION_WEBHOOK_SECRET"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
	LogOutput string `yaml:"log_output" env-default:"stdout"`
}

// Escrow holds the business terms. FeePercentage is a fraction, 0.05 = 5%.
type Escrow struct {
	FeePercentage           float64 `yaml:"fee_percentage" env:"ESCROW_FEE_PERCENTAGE" env-default:"0.05"`
	PaymentExpiryHours      int     `yaml:"payment_expiry_hours" env-default:"24"`
	VerificationPeriodHours int     `yaml:"verification_period_hours" env-default:"24"`
	MaxEvidencePerUploader  int     `yaml:"max_evidence_per_uploader" env-default:"10"`
	AutoCompleteOnDeadline  bool    `yaml:"auto_complete_on_deadline" env-default:"true"`
}

type Gateway struct {
	Mode          string        `yaml:"mode" env:"GATEWAY_MODE" env-default:"simulated"`
	BaseURL       string        `yaml:"base_url" env:"GATEWAY_BASE_URL"`
	SecretKey     string        `yaml:"secret_key" env:"GATEWAY_SECRET_KEY"`
	CallbackToken string        `yaml:"callback_token" env:"GATEWAY_CALLBACK_TOKEN"`
	SuccessURL    string        `yaml:"success_url"`
	FailureURL    string        `yaml:"failure_url"`
	Timeout       time.Duration `yaml:"timeout" env-default:"10s"`
}

type UserService struct {
	BaseURL string        `yaml:"base_url" env:"USER_SERVICE_URL"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`
}

type Scheduler struct {
	Enabled               bool          `yaml:"enabled" env-default:"true"`
	PaymentExpiryInterval time.Duration `yaml:"payment_expiry_interval" env-default:"30s"`
	VerificationInterval  time.Duration `yaml:"verification_interval" env-default:"1m"`
	AuctionCloseInterval  time.Duration `yaml:"auction_close_interval" env-default:"30s"`
	// Zero disables polling the gateway for pending invoices.
	PaymentSyncInterval time.Duration `yaml:"payment_sync_interval" env-default:"0s"`
	BatchSize           int           `yaml:"batch_size" env-default:"100"`
}

func (e Escrow) PaymentExpiry() time.Duration {
	return time.Duration(e.PaymentExpiryHours) * time.Hour
}

// Validate rejects configurations the escrow core cannot run with.
func (c *EscrowConfig) Validate() error {
	if c.Escrow.FeePercentage < 0 || c.Escrow.FeePercentage > 1 {
		return fmt.Errorf("escrow.fee_percentage must be within [0,1], got %v", c.Escrow.FeePercentage)
	}
	if c.Escrow.PaymentExpiryHours <= 0 {
		return fmt.Errorf("escrow.payment_expiry_hours must be positive")
	}
	if c.Escrow.VerificationPeriodHours <= 0 {
		return fmt.Errorf("escrow.verification_period_hours must be positive")
	}
	if c.Escrow.MaxEvidencePerUploader <= 0 {
		return fmt.Errorf("escrow.max_evidence_per_uploader must be positive")
	}
	switch c.Storage {
	case StoragePostgres:
		if c.EscrowDB.Dsn == "" {
			return fmt.Errorf("escrow_db.dsn is required for postgres storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	switch c.Gateway.Mode {
	case GatewayHTTP:
		if c.Gateway.BaseURL == "" || c.Gateway.SecretKey == "" {
			return fmt.Errorf("gateway.base_url and gateway.secret_key are required in http mode")
		}
	case GatewaySimulated:
	default:
		return fmt.Errorf("unknown gateway mode %q", c.Gateway.Mode)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	return nil
}

// Load reads the YAML file at path; environment variables override it.
func Load(path string) (*EscrowConfig, error) {
	var cfg EscrowConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *EscrowConfig {
	configPath := os.Getenv("ESCROW_CONFIG_PATH")
	if configPath == "" {
		log.Fatalf("ESCROW_CONFIG_PATH was not found\n")
	}
	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
