package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chama/internal/ledger"
)

type Config struct {
	App struct {
		Name        string   `envconfig:"APP_NAME" default:"Chama"`
		Port        int      `envconfig:"PORT" default:"8080"`
		CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
	}

	DB struct {
		Host           string        `envconfig:"DB_HOST" default:"localhost"`
		Port           int           `envconfig:"DB_PORT" default:"5432"`
		User           string        `envconfig:"DB_USER" default:"postgres"`
		Password       string        `envconfig:"DB_PASSWORD" default:""`
		Name           string        `envconfig:"DB_NAME" default:"chama"`
		MaxOpenConns   int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		AcquireTimeout time.Duration `envconfig:"DB_ACQUIRE_TIMEOUT" default:"5s"`
		Migrate        bool          `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET"`
		TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	}

	Ledger struct {
		RegistrationFee string `envconfig:"REGISTRATION_FEE" default:"100"`
		MonthlyFee      string `envconfig:"MONTHLY_FEE" default:"50"`
		TreasurerPhone  string `envconfig:"TREASURER_PHONE" default:"0705185868"`
	}

	Kafka struct {
		Brokers []string `envconfig:"KAFKA_BROKERS"`
		Topic   string   `envconfig:"KAFKA_TOPIC" default:"ledger.events"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Policy parses the configured fees.
func (c *Config) Policy() (ledger.Policy, error) {
	reg, err := decimal.NewFromString(c.Ledger.RegistrationFee)
	if err != nil {
		return ledger.Policy{}, fmt.Errorf("parsing REGISTRATION_FEE: %w", err)
	}

	monthly, err := decimal.NewFromString(c.Ledger.MonthlyFee)
	if err != nil {
		return ledger.Policy{}, fmt.Errorf("parsing MONTHLY_FEE: %w", err)
	}

	if !reg.IsPositive() || !monthly.IsPositive() {
		return ledger.Policy{}, errors.New("fees must be greater than zero")
	}

	return ledger.Policy{RegistrationFee: reg, MonthlyFee: monthly}, nil
}

func (c *Config) Validate() error {
	if c.App.Port < 1 || c.App.Port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.App.Port)
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	if c.DB.AcquireTimeout <= 0 {
		return errors.New("DB_ACQUIRE_TIMEOUT must be positive")
	}

	if _, err := c.Policy(); err != nil {
		return err
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
