package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dtroode/miniapp-server/internal/model"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel  int      `env:"LOG_LEVEL" envDefault:"0"`
	LogFormat string   `env:"LOG_FORMAT" envDefault:"text"`
	HTTP      Listener `envPrefix:"HTTP_"`
	GRPC      Listener `envPrefix:"GRPC_"`
	Database  Database `envPrefix:"DATABASE_"`
	Telegram  Telegram `envPrefix:"TELEGRAM_"`
	JWT       JWT      `envPrefix:"JWT_"`
	Redis     Redis    `envPrefix:"REDIS_"`
	Storage   Storage  `envPrefix:"MINIO_"`
	NATS      NATS     `envPrefix:"NATS_"`
}

// Listener contains parameters of a network server.
type Listener struct {
	Port               string `env:"PORT"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// Address returns the listen address for the port.
func (l Listener) Address() string {
	return ":" + l.Port
}

// Database contains database connection parameters. An empty DSN selects
// the in-memory user store.
type Database struct {
	DSN string `env:"DSN"`
}

// Telegram contains launch data verification parameters.
type Telegram struct {
	BotToken string        `env:"BOT_TOKEN,required,notEmpty"`
	MaxAge   time.Duration `env:"MAX_AGE" envDefault:"24h"`
}

// JWT contains session token parameters.
type JWT struct {
	Secret string        `env:"SECRET,required,notEmpty"`
	TTL    time.Duration `env:"TTL" envDefault:"168h"`
	Issuer string        `env:"ISSUER" envDefault:"miniapp-server"`
}

// Redis contains cache parameters. An empty address selects the in-process cache.
type Redis struct {
	Addr       string        `env:"ADDR"`
	Password   string        `env:"PASSWORD"`
	DB         int           `env:"DB" envDefault:"0"`
	ProfileTTL time.Duration `env:"PROFILE_TTL" envDefault:"5m"`
}

// Storage contains object storage parameters for mirrored avatars.
type Storage struct {
	Enabled   bool   `env:"ENABLED" envDefault:"false"`
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"miniapp-avatars"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// NATS contains event publishing parameters. An empty URL disables events.
type NATS struct {
	URL           string `env:"URL"`
	SubjectPrefix string `env:"SUBJECT_PREFIX" envDefault:"miniapp"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{
		HTTP: Listener{Port: "8080"},
		GRPC: Listener{Port: "50051"},
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if len(c.JWT.Secret) < model.MinSigningSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", model.MinSigningSecretLength))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.Telegram.MaxAge <= 0 {
		errs = append(errs, errors.New("TELEGRAM_MAX_AGE must be positive"))
	}
	if c.HTTP.Port == c.GRPC.Port {
		errs = append(errs, errors.New("HTTP_PORT and GRPC_PORT must differ"))
	}
	if c.Storage.Enabled && (c.Storage.AccessKey == "" || c.Storage.SecretKey == "") {
		errs = append(errs, errors.New("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENABLED is set"))
	}

	return errors.Join(errs...)
}
